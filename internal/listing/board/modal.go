package board

import (
	"errors"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
)

// Mode is what the listing modal is showing.
type Mode string

const (
	ModeNone   Mode = ""
	ModeView   Mode = "view"
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
	ModeDelete Mode = "delete"
)

// ParseMode maps a query value to a Mode; unknown values yield ModeNone.
func ParseMode(s string) Mode {
	switch m := Mode(s); m {
	case ModeView, ModeCreate, ModeEdit, ModeDelete:
		return m
	}
	return ModeNone
}

func (m Mode) requiresIdentity() bool {
	return m == ModeCreate || m == ModeEdit || m == ModeDelete
}

func (m Mode) requiresOwnership() bool {
	return m == ModeEdit || m == ModeDelete
}

var (
	ErrLoginRequired = errors.New("you must be logged in to perform this action")
	ErrNotOwner      = errors.New("you don't have permission to change this listing")
	ErrNoListing     = errors.New("no listing selected")
)

// Modal is the board's selection state. It is never persisted and Close resets all of it.
// The zero value is a closed modal.
type Modal struct {
	mode            Mode
	listing         *domain.Listing
	previewOpen     bool
	previewIndex    int
	pendingPreviews []string
}

// Open shows listing in mode. Create, edit and delete need a signed-in identity; edit and
// delete also need identity to be the listing's creator. A refused Open leaves the state as is.
func (m *Modal) Open(mode Mode, listing *domain.Listing, identity string) error {
	if mode == ModeNone {
		m.Close()
		return nil
	}
	if mode.requiresIdentity() && identity == "" {
		return ErrLoginRequired
	}
	if mode != ModeCreate && listing == nil {
		return ErrNoListing
	}
	if mode.requiresOwnership() && !listing.IsOwnedBy(identity) {
		return ErrNotOwner
	}
	if mode == ModeCreate {
		listing = nil
	}
	m.mode = mode
	m.listing = listing
	m.previewOpen = false
	m.previewIndex = 0
	m.pendingPreviews = nil
	return nil
}

// Close resets every field.
func (m *Modal) Close() {
	*m = Modal{}
}

func (m *Modal) IsOpen() bool { return m.mode != ModeNone }

func (m *Modal) Mode() Mode { return m.mode }

func (m *Modal) Listing() *domain.Listing { return m.listing }

// SetPendingPreviews records the names of files picked in the create/edit form.
func (m *Modal) SetPendingPreviews(names []string) {
	m.pendingPreviews = append([]string(nil), names...)
}

func (m *Modal) PendingPreviews() []string { return m.pendingPreviews }

// OpenPreview shows image i of the selected listing full size. Out-of-range indexes are ignored.
func (m *Modal) OpenPreview(i int) bool {
	if m.listing == nil || i < 0 || i >= len(m.listing.Images) {
		return false
	}
	m.previewOpen = true
	m.previewIndex = i
	return true
}

// NavigatePreview moves the preview by dir (usually -1 or +1), wrapping at both ends.
func (m *Modal) NavigatePreview(dir int) {
	if m.listing == nil || len(m.listing.Images) == 0 {
		return
	}
	n := len(m.listing.Images)
	m.previewIndex = ((m.previewIndex+dir)%n + n) % n
	m.previewOpen = true
}

func (m *Modal) ClosePreview() {
	m.previewOpen = false
	m.previewIndex = 0
}

// Preview returns the previewed image URL and its index, or ok=false when no preview is shown.
func (m *Modal) Preview() (url string, index int, ok bool) {
	if !m.previewOpen || m.listing == nil || len(m.listing.Images) == 0 {
		return "", 0, false
	}
	return m.listing.Images[m.previewIndex], m.previewIndex, true
}
