package domain

import "time"

// Listing is a real-estate property record. Price is free text ("7 tỷ", "3,5 tỷ thương lượng").
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       string    `json:"price"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Creator     string    `json:"creator"`
	Date        time.Time `json:"date"`
}

// Draft is the client-supplied part of a listing.
type Draft struct {
	Title       string `json:"title" validate:"required,max=200"`
	Price       string `json:"price" validate:"required,max=100"`
	Description string `json:"description" validate:"max=5000"`
}

// ImageFile is one uploaded image.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsOwnedBy reports whether identity is the listing's creator.
// This is a plain email comparison; the document store does not enforce it.
func (l *Listing) IsOwnedBy(identity string) bool {
	return identity != "" && l.Creator == identity
}

// HasImage reports whether url is one of the listing's images.
func (l *Listing) HasImage(url string) bool {
	for _, img := range l.Images {
		if img == url {
			return true
		}
	}
	return false
}

// ListingEvent is the payload published after a listing changes.
type ListingEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	Creator    string    `json:"creator"`
	ImageCount int       `json:"image_count"`
	OccurredAt time.Time `json:"occurred_at"`
}
