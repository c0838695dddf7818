package board

import (
	"testing"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownedListing() *domain.Listing {
	return &domain.Listing{
		ID:      "L1",
		Creator: "owner@example.com",
		Images:  []string{"u0", "u1", "u2"},
	}
}

func TestModal_OpenRules(t *testing.T) {
	l := ownedListing()
	tests := []struct {
		name     string
		mode     Mode
		listing  *domain.Listing
		identity string
		wantErr  error
	}{
		{"anonymous can view", ModeView, l, "", nil},
		{"anonymous cannot create", ModeCreate, nil, "", ErrLoginRequired},
		{"anonymous cannot edit", ModeEdit, l, "", ErrLoginRequired},
		{"anonymous cannot delete", ModeDelete, l, "", ErrLoginRequired},
		{"signed in can create", ModeCreate, nil, "someone@example.com", nil},
		{"non-owner cannot edit", ModeEdit, l, "someone@example.com", ErrNotOwner},
		{"non-owner cannot delete", ModeDelete, l, "someone@example.com", ErrNotOwner},
		{"owner can edit", ModeEdit, l, "owner@example.com", nil},
		{"owner can delete", ModeDelete, l, "owner@example.com", nil},
		{"view needs a listing", ModeView, nil, "", ErrNoListing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Modal
			err := m.Open(tt.mode, tt.listing, tt.identity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, m.IsOpen())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, m.Mode())
		})
	}
}

func TestModal_RefusedOpenKeepsState(t *testing.T) {
	var m Modal
	require.NoError(t, m.Open(ModeView, ownedListing(), ""))

	err := m.Open(ModeEdit, ownedListing(), "")

	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, ModeView, m.Mode())
}

func TestModal_CloseResetsEverything(t *testing.T) {
	var m Modal
	require.NoError(t, m.Open(ModeEdit, ownedListing(), "owner@example.com"))
	m.SetPendingPreviews([]string{"a.jpg"})
	m.OpenPreview(2)

	m.Close()

	assert.False(t, m.IsOpen())
	assert.Nil(t, m.Listing())
	assert.Empty(t, m.PendingPreviews())
	_, _, ok := m.Preview()
	assert.False(t, ok)
	assert.Equal(t, Modal{}, m)
}

func TestModal_PreviewNavigationWraps(t *testing.T) {
	var m Modal
	require.NoError(t, m.Open(ModeView, ownedListing(), ""))

	require.True(t, m.OpenPreview(0))
	m.NavigatePreview(-1)
	url, idx, ok := m.Preview()
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "u2", url)

	m.NavigatePreview(1)
	_, idx, _ = m.Preview()
	assert.Equal(t, 0, idx)

	m.NavigatePreview(1)
	m.NavigatePreview(1)
	_, idx, _ = m.Preview()
	assert.Equal(t, 2, idx)

	m.ClosePreview()
	_, _, ok = m.Preview()
	assert.False(t, ok)
	assert.True(t, m.IsOpen(), "closing the preview keeps the modal open")
}

func TestModal_OpenPreviewOutOfRange(t *testing.T) {
	var m Modal
	assert.False(t, m.OpenPreview(0), "no listing selected")

	require.NoError(t, m.Open(ModeView, ownedListing(), ""))
	assert.False(t, m.OpenPreview(3))
	assert.False(t, m.OpenPreview(-1))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeEdit, ParseMode("edit"))
	assert.Equal(t, ModeNone, ParseMode("bogus"))
}
