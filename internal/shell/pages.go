package shell

import (
	"net/url"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/board"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
)

// Chrome is shared by every page.
type Chrome struct {
	Nav   Nav
	Flash string
}

// AuthPage backs the sign-in and sign-up forms.
type AuthPage struct {
	Chrome
	SignUp bool
	Email  string
	Error  string
}

// ModalView is the template-facing snapshot of a board.Modal.
type ModalView struct {
	Mode         string
	Listing      *domain.Listing
	CanEdit      bool
	PreviewOpen  bool
	PreviewURL   string
	PreviewIndex int
}

// NewModalView returns nil for a closed modal.
func NewModalView(m *board.Modal, identity string) *ModalView {
	if !m.IsOpen() {
		return nil
	}
	v := &ModalView{Mode: string(m.Mode()), Listing: m.Listing()}
	if l := m.Listing(); l != nil {
		v.CanEdit = l.IsOwnedBy(identity)
	}
	if u, i, ok := m.Preview(); ok {
		v.PreviewOpen = true
		v.PreviewURL = u
		v.PreviewIndex = i
	}
	return v
}

// BoardPage backs the listing board. Its URL helpers keep the search and page in every link.
type BoardPage struct {
	Chrome
	Query string
	Page  board.Page
	Modal *ModalView
}

func (p BoardPage) link(extra url.Values) string {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Page.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page.Page))
	}
	for k, vals := range extra {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	if len(v) == 0 {
		return PathBoard
	}
	return PathBoard + "?" + v.Encode()
}

func (p BoardPage) modalLink(id string, mode board.Mode) string {
	v := url.Values{"mode": {string(mode)}}
	if id != "" {
		v.Set("view", id)
	}
	return p.link(v)
}

func (p BoardPage) ViewURL(id string) string   { return p.modalLink(id, board.ModeView) }
func (p BoardPage) EditURL(id string) string   { return p.modalLink(id, board.ModeEdit) }
func (p BoardPage) DeleteURL(id string) string { return p.modalLink(id, board.ModeDelete) }
func (p BoardPage) CreateURL() string          { return p.modalLink("", board.ModeCreate) }
func (p BoardPage) CloseURL() string           { return p.link(nil) }

// PageURL links to page n of the current search.
func (p BoardPage) PageURL(n int) string {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	v.Set("page", strconv.Itoa(n))
	return PathBoard + "?" + v.Encode()
}

// PreviewURL opens image i of the open listing in the preview.
func (p BoardPage) PreviewURL(i int) string {
	if p.Modal == nil || p.Modal.Listing == nil {
		return p.CloseURL()
	}
	return p.link(url.Values{
		"view": {p.Modal.Listing.ID},
		"mode": {p.Modal.Mode},
		"img":  {strconv.Itoa(i)},
	})
}

// StepURL moves the open preview by dir, wrapping at both ends.
func (p BoardPage) StepURL(dir int) string {
	if p.Modal == nil || !p.Modal.PreviewOpen {
		return p.CloseURL()
	}
	return p.link(url.Values{
		"view": {p.Modal.Listing.ID},
		"mode": {p.Modal.Mode},
		"img":  {strconv.Itoa(p.Modal.PreviewIndex)},
		"nav":  {strconv.Itoa(dir)},
	})
}
