package domain

import (
	"context"
	"time"
)

// ListingRepository is the document store port.
type ListingRepository interface {
	// NewID allocates an id before the document is written, so blobs can be scoped to it.
	NewID() string
	FetchAll(ctx context.Context) ([]*Listing, error)
	FindByID(ctx context.Context, id string) (*Listing, error)
	// Insert writes a new document; the store assigns the date.
	Insert(ctx context.Context, listing *Listing) error
	// Replace overwrites the whole document. Last write wins.
	Replace(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
}

// BlobObject describes one stored blob.
type BlobObject struct {
	Key  string
	Size int64
}

// BlobStore is the object storage port. Keys are bucket-relative paths.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]BlobObject, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a public URL produced by Put back to its key.
	KeyFromURL(url string) (string, bool)
}

// ListingCache keeps one board snapshot per generation. Invalidate starts a new generation,
// so a snapshot filled from a store read that began before a write is never served after it.
type ListingCache interface {
	// GetAll returns the current generation and its snapshot. A miss returns a nil snapshot.
	GetAll(ctx context.Context) (gen int64, listings []*Listing, err error)
	// SetAll stores listings as the snapshot of generation gen.
	SetAll(ctx context.Context, gen int64, listings []*Listing, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// EventPublisher publishes listing lifecycle events.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, event ListingEvent) error
	PublishListingUpdated(ctx context.Context, event ListingEvent) error
	PublishListingDeleted(ctx context.Context, event ListingEvent) error
}

// Notifier tells a creator that their listing was published.
type Notifier interface {
	SendListingCreatedEmail(toEmail, listingTitle string) error
}
