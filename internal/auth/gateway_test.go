package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	mu    sync.Mutex
	byKey map[string]Credentials
}

func newMemUsers() *memUsers { return &memUsers{byKey: map[string]Credentials{}} }

func (s *memUsers) Create(_ context.Context, email, hash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[email]; ok {
		return nil, ErrDuplicateEmail
	}
	u := User{ID: "u-" + email, Email: email, CreatedAt: time.Now()}
	s.byKey[email] = Credentials{User: u, PasswordHash: hash}
	return &u, nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byKey[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &c, nil
}

type memSessions struct {
	mu   sync.Mutex
	ids  map[string]string
	fail error
}

func newMemSessions() *memSessions { return &memSessions{ids: map[string]string{}} }

func (s *memSessions) Save(_ context.Context, tokenID, userID string, _ time.Duration) error {
	if s.fail != nil {
		return s.fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[tokenID] = userID
	return nil
}

func (s *memSessions) Exists(_ context.Context, tokenID string) (bool, error) {
	if s.fail != nil {
		return false, s.fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[tokenID]
	return ok, nil
}

func (s *memSessions) Delete(_ context.Context, tokenID string) (bool, error) {
	if s.fail != nil {
		return false, s.fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[tokenID]
	delete(s.ids, tokenID)
	return ok, nil
}

func newTestGateway() (*Gateway, *memSessions) {
	sessions := newMemSessions()
	g := NewGateway(newMemUsers(), sessions, NewTokenIssuer("test-secret", time.Hour, "estate-test"), logger.NewNop())
	return g, sessions
}

func TestGateway_SignUpSignsIn(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway()

	var events []Event
	unsubscribe := g.Subscribe(func(e Event) { events = append(events, e) })
	defer unsubscribe()

	sess, err := g.SignUp(ctx, "  Owner@Example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", sess.User.Email)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	require.Len(t, events, 1)
	assert.Equal(t, EventSignedIn, events[0].Kind)
	assert.Equal(t, "owner@example.com", events[0].User.Email)

	u, err := g.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
}

func TestGateway_SignUpRejects(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway()
	_, err := g.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	_, err = g.SignUp(ctx, "A@example.com", "another1")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = g.SignUp(ctx, "b@example.com", "123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGateway_SignIn(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway()
	_, err := g.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	sess, err := g.SignIn(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, err = g.SignIn(ctx, "a@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = g.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGateway_SignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway()
	sess, err := g.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	var kinds []EventKind
	unsubscribe := g.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })
	defer unsubscribe()

	require.NoError(t, g.SignOut(ctx, sess.Token))
	assert.Equal(t, []EventKind{EventSignedOut}, kinds)

	_, err = g.CurrentUser(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGateway_SecondSignOutIsRejected(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway()
	sess, err := g.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	var signedOut int
	unsubscribe := g.Subscribe(func(e Event) {
		if e.Kind == EventSignedOut {
			signedOut++
		}
	})
	defer unsubscribe()

	require.NoError(t, g.SignOut(ctx, sess.Token))
	err = g.SignOut(ctx, sess.Token)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 1, signedOut, "a revoked session is announced once")
}

func TestGateway_CurrentUserRejectsGarbage(t *testing.T) {
	g, _ := newTestGateway()
	_, err := g.CurrentUser(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = g.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGateway_SessionStoreFailure(t *testing.T) {
	ctx := context.Background()
	g, sessions := newTestGateway()
	sessions.fail = errors.New("redis down")

	var called bool
	unsubscribe := g.Subscribe(func(Event) { called = true })
	defer unsubscribe()

	_, err := g.SignUp(ctx, "a@example.com", "secret123")
	assert.Error(t, err)
	assert.False(t, called, "no event without a stored session")
}

func TestGateway_UnsubscribeStopsNotifications(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway()

	var count int
	unsubscribe := g.Subscribe(func(Event) { count++ })
	_, err := g.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	unsubscribe()
	_, err = g.SignIn(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, 1, count)
}
