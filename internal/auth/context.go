package auth

import "context"

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

// IdentityFromContext returns the caller's email, or "" when anonymous.
func IdentityFromContext(ctx context.Context) string {
	if u := UserFromContext(ctx); u != nil {
		return u.Email
	}
	return ""
}
