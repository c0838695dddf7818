package mongodb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestListingDocumentRoundTrip(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	date := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	in := &domain.Listing{ID: id, Title: "Nhà", Price: "7 tỷ", Creator: "a@example.com", Date: date}

	doc, err := toListingDocument(in)
	require.NoError(t, err)
	assert.NotNil(t, doc.Images)

	out := doc.toDomain()
	assert.Equal(t, id, out.ID)
	assert.Equal(t, date, out.Date)
	assert.Empty(t, out.Images)
}

func TestToListingDocument_InvalidID(t *testing.T) {
	_, err := toListingDocument(&domain.Listing{ID: "not-hex"})
	assert.ErrorIs(t, err, domain.ErrInvalidListing)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify("op", nil))
	assert.ErrorIs(t, classify("op", mongo.ErrNoDocuments), domain.ErrNotFound)
	assert.ErrorIs(t, classify("op", context.DeadlineExceeded), domain.ErrRemoteUnavailable)
	assert.ErrorIs(t, classify("op", fmt.Errorf("wrapped: %w", mongo.ErrClientDisconnected)), domain.ErrRemoteUnavailable)

	other := errors.New("bad document")
	err := classify("op", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, domain.ErrRemoteUnavailable)
}
