package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	msgs []*nats.Msg
	err  error
}

func (r *recordingConn) PublishMsg(m *nats.Msg) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, m)
	return nil
}

func newTestPublisher(conn *recordingConn) *Publisher {
	return &Publisher{pub: conn, logger: logger.NewNop()}
}

func TestPublisher_ListingEvents(t *testing.T) {
	conn := &recordingConn{}
	p := newTestPublisher(conn)
	ctx := context.Background()
	e := domain.ListingEvent{ID: "L1", Title: "Nhà", Creator: "a@example.com", ImageCount: 3}

	require.NoError(t, p.PublishListingCreated(ctx, e))
	require.NoError(t, p.PublishListingUpdated(ctx, e))
	require.NoError(t, p.PublishListingDeleted(ctx, e))

	require.Len(t, conn.msgs, 3)
	assert.Equal(t, SubjectListingCreated, conn.msgs[0].Subject)
	assert.Equal(t, SubjectListingUpdated, conn.msgs[1].Subject)
	assert.Equal(t, SubjectListingDeleted, conn.msgs[2].Subject)

	var got domain.ListingEvent
	require.NoError(t, json.Unmarshal(conn.msgs[0].Data, &got))
	assert.Equal(t, "L1", got.ID)
	assert.Equal(t, 3, got.ImageCount)
}

func TestPublisher_PublishError(t *testing.T) {
	p := newTestPublisher(&recordingConn{err: errors.New("no responders")})
	err := p.PublishListingCreated(context.Background(), domain.ListingEvent{ID: "L1"})
	assert.Error(t, err)
}

func TestPublisher_AuthListener(t *testing.T) {
	conn := &recordingConn{}
	listen := newTestPublisher(conn).AuthListener()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	listen(auth.Event{Kind: auth.EventSignedIn, User: auth.User{ID: "u1", Email: "a@example.com"}, OccurredAt: at})
	listen(auth.Event{Kind: auth.EventSignedOut, User: auth.User{ID: "u1"}, OccurredAt: at})

	require.Len(t, conn.msgs, 2)
	assert.Equal(t, SubjectAuthSignedIn, conn.msgs[0].Subject)
	assert.Equal(t, SubjectAuthSignedOut, conn.msgs[1].Subject)
	assert.JSONEq(t, `{"user_id":"u1","email":"a@example.com","occurred_at":"2024-05-01T08:00:00Z"}`, string(conn.msgs[0].Data))
}

func TestPublisher_CloseWithoutConnection(t *testing.T) {
	p := newTestPublisher(&recordingConn{})
	assert.NotPanics(t, p.Close)
}
