package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// listingDocument is how a Listing is stored in the listings collection.
type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Price       string             `bson:"price"`
	Description string             `bson:"description"`
	Images      []string           `bson:"images"`
	Creator     string             `bson:"creator"`
	Date        time.Time          `bson:"date"`
}

// userDocument is how a User is stored in the users collection.
type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", domain.ErrInvalidListing, l.ID)
	}
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return &listingDocument{
		ID:          oid,
		Title:       l.Title,
		Price:       l.Price,
		Description: l.Description,
		Images:      images,
		Creator:     l.Creator,
		Date:        l.Date,
	}, nil
}

func (d *listingDocument) toDomain() *domain.Listing {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Price:       d.Price,
		Description: d.Description,
		Images:      images,
		Creator:     d.Creator,
		Date:        d.Date,
	}
}

func (d *userDocument) toCredentials() *auth.Credentials {
	return &auth.Credentials{
		User: auth.User{
			ID:        d.ID.Hex(),
			Email:     d.Email,
			CreatedAt: d.CreatedAt,
		},
		PasswordHash: d.PasswordHash,
	}
}

// classify maps driver errors onto the domain taxonomy. Connectivity problems become
// ErrRemoteUnavailable; anything else is returned wrapped with op.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %s: %v", domain.ErrRemoteUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
