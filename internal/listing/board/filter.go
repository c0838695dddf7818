package board

import (
	"strings"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
)

// Filter keeps the listings whose title, description or price contains query, ignoring case
// and diacritics. A blank query returns listings unchanged. Relative order is preserved and
// the input slice is never modified.
func Filter(listings []*domain.Listing, query string) []*domain.Listing {
	if strings.TrimSpace(query) == "" {
		return listings
	}
	needle := Normalize(query)

	out := make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l == nil {
			continue
		}
		if strings.Contains(Normalize(l.Title), needle) ||
			strings.Contains(Normalize(l.Description), needle) ||
			strings.Contains(Normalize(l.Price), needle) {
			out = append(out, l)
		}
	}
	return out
}
