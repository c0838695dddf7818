// Package shell renders the server-side pages: the listing board and the auth forms.
package shell

import "github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"

const (
	PathBoard   = "/"
	PathSignIn  = "/sign-in"
	PathSignUp  = "/sign-up"
	PathSignOut = "/sign-out"
)

// Nav is the state of the top bar.
type Nav struct {
	Visible    bool
	SignedIn   bool
	Email      string
	ShowLogin  bool
	ShowLogout bool
}

// NavFor computes the top bar for path. The bar is hidden on the auth forms. Signed-in
// users get a logout button; anonymous visitors get a login button unless disableAnonymous is set.
func NavFor(path string, user *auth.User, disableAnonymous bool) Nav {
	nav := Nav{Visible: path != PathSignIn && path != PathSignUp}
	if user != nil {
		nav.SignedIn = true
		nav.Email = user.Email
		nav.ShowLogout = true
		return nav
	}
	nav.ShowLogin = !disableAnonymous
	return nav
}
