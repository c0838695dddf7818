package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// User is a signed-up account. Listings refer to their owner by Email.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials is a user together with its bcrypt password hash.
type Credentials struct {
	User         User
	PasswordHash string
}

// UserStore persists accounts. Create must return ErrDuplicateEmail for a taken email,
// FindByEmail ErrUserNotFound for an unknown one.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*Credentials, error)
}

// SessionStore tracks issued token IDs so a signed-out token stops working before it expires.
type SessionStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	// Delete reports whether the session still existed.
	Delete(ctx context.Context, tokenID string) (bool, error)
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
