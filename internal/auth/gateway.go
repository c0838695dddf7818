package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Gateway is the process-wide auth state: it signs users up and in, answers who the
// caller is, and tells subscribers when sessions start and end. One Gateway is built at
// start-up and shared by every request.
type Gateway struct {
	users    UserStore
	sessions SessionStore
	tokens   *TokenIssuer
	hub      *Hub
	logger   *logger.Logger
	now      func() time.Time
}

func NewGateway(users UserStore, sessions SessionStore, tokens *TokenIssuer, log *logger.Logger) *Gateway {
	return &Gateway{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hub:      NewHub(),
		logger:   log.Named("AuthGateway"),
		now:      time.Now,
	}
}

// Subscribe registers fn for sign-in and sign-out events and returns its unsubscribe function.
func (g *Gateway) Subscribe(fn Listener) (unsubscribe func()) {
	return g.hub.Subscribe(fn)
}

// SignUp creates the account and signs it in.
func (g *Gateway) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLength {
		return nil, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		g.logger.Error("Failed to hash password", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := g.users.Create(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			g.logger.Warn("Sign-up with an existing email", zap.String("email", email))
			return nil, err
		}
		g.logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}
	g.logger.Info("User signed up", zap.String("user_id", user.ID), zap.String("email", email))
	return g.startSession(ctx, *user)
}

// SignIn checks the password and starts a session.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	creds, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		g.logger.Error("Failed to look up user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		g.logger.Debug("Password mismatch", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	return g.startSession(ctx, creds.User)
}

func (g *Gateway) startSession(ctx context.Context, u User) (*Session, error) {
	token, claims, err := g.tokens.Issue(u)
	if err != nil {
		g.logger.Error("Failed to issue token", zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}
	if err := g.sessions.Save(ctx, claims.ID, u.ID, g.tokens.TTL()); err != nil {
		g.logger.Error("Failed to save session", zap.String("user_id", u.ID), zap.Error(err))
		return nil, fmt.Errorf("save session: %w", err)
	}

	g.logger.Info("User signed in", zap.String("user_id", u.ID), zap.String("email", u.Email))
	g.hub.Publish(Event{Kind: EventSignedIn, User: u, OccurredAt: g.now().UTC()})
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u}, nil
}

// SignOut revokes the session behind token. A token whose session is already gone yields
// ErrUnauthenticated and no event.
func (g *Gateway) SignOut(ctx context.Context, token string) error {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return err
	}
	existed, err := g.sessions.Delete(ctx, claims.ID)
	if err != nil {
		g.logger.Warn("Failed to revoke session", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	if !existed {
		g.logger.Debug("Sign-out of a revoked session", zap.String("user_id", claims.UserID))
		return fmt.Errorf("%w: session revoked", ErrUnauthenticated)
	}
	u := User{ID: claims.UserID, Email: claims.Email}
	g.logger.Info("User signed out", zap.String("user_id", u.ID))
	g.hub.Publish(Event{Kind: EventSignedOut, User: u, OccurredAt: g.now().UTC()})
	return nil
}

// CurrentUser resolves token to its user. Expired, malformed and revoked tokens all yield
// ErrUnauthenticated.
func (g *Gateway) CurrentUser(ctx context.Context, token string) (*User, error) {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	ok, err := g.sessions.Exists(ctx, claims.ID)
	if err != nil {
		g.logger.Error("Failed to check session", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthenticated)
	}
	return &User{ID: claims.UserID, Email: claims.Email}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
