package board

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 100
)

// Page is one slice of the board.
type Page struct {
	Items      []*domain.Listing `json:"items"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// Paginate returns the 1-based page of listings. perPage outside 1..MaxPerPage falls back to
// DefaultPerPage; page is clamped into the valid range.
func Paginate(listings []*domain.Listing, page, perPage int) Page {
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	total := len(listings)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	items := make([]*domain.Listing, 0, end-start)
	items = append(items, listings[start:end]...)

	return Page{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FormatDate renders a listing date the way the board shows it, e.g. "May 1, 2024".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}
