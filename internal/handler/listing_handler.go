package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/board"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ListingService is what the listing endpoints need from the use case layer.
type ListingService interface {
	FetchAll(ctx context.Context) ([]*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Create(ctx context.Context, identity string, draft domain.Draft, files []domain.ImageFile) (*usecase.CreateResult, error)
	Update(ctx context.Context, identity string, listing *domain.Listing, files []domain.ImageFile, removedURLs []string) (*usecase.UpdateResult, error)
	Delete(ctx context.Context, identity, id string) (*usecase.DeleteResult, error)
}

// Archiver bundles a listing's images into w.
type Archiver interface {
	Archive(ctx context.Context, listingID string, w io.Writer) (int, error)
}

type ListingHandler struct {
	listings ListingService
	archiver Archiver
	validate *validator.Validate
	logger   *logger.Logger
}

func NewListingHandler(listings ListingService, archiver Archiver, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		archiver: archiver,
		validate: newValidator(),
		logger:   log.Named("ListingHandler"),
	}
}

type pageResponse struct {
	Items      []*domain.Listing `json:"items"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	Query      string            `json:"query,omitempty"`
}

// HandleList serves the board: every listing newest first, filtered by q, one page at a time.
func (h *ListingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	all, err := h.listings.FetchAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	page := board.Paginate(board.Filter(all, q.Get("q")), atoiOr(q.Get("page"), 1), atoiOr(q.Get("per_page"), board.DefaultPerPage))
	writeJSON(w, h.logger, http.StatusOK, pageResponse{
		Items:      page.Items,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Query:      q.Get("q"),
	})
}

func (h *ListingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listing)
}

type createResponse struct {
	Listing *domain.Listing `json:"listing"`
	Uploads []itemView      `json:"uploads"`
}

// HandleCreate accepts multipart fields title, price, description and files under images.
func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	draft, files, ok := h.readDraft(w, r)
	if !ok {
		return
	}
	res, err := h.listings.Create(r.Context(), auth.IdentityFromContext(r.Context()), draft, files)
	if err != nil {
		if res != nil && len(res.Uploads.Items) > 0 {
			h.logger.Warn("Create failed after uploads", zap.Int("uploaded", len(res.Uploads.URLs())), zap.Error(err))
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, createResponse{Listing: res.Listing, Uploads: batchView(res.Uploads)})
}

type updateResponse struct {
	Listing  *domain.Listing `json:"listing"`
	Uploads  []itemView      `json:"uploads"`
	Removals []itemView      `json:"removals"`
}

// HandleUpdate rewrites the listing. removed_images may repeat, once per URL to drop.
func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	draft, files, ok := h.readDraft(w, r)
	if !ok {
		return
	}
	listing := &domain.Listing{
		ID:          chi.URLParam(r, "id"),
		Title:       draft.Title,
		Price:       draft.Price,
		Description: draft.Description,
	}
	res, err := h.listings.Update(r.Context(), auth.IdentityFromContext(r.Context()), listing, files, r.Form["removed_images"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, updateResponse{
		Listing:  res.Listing,
		Uploads:  batchView(res.Uploads),
		Removals: batchView(res.Removals),
	})
}

type deleteResponse struct {
	ID       string     `json:"id"`
	Removals []itemView `json:"removals"`
}

func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.listings.Delete(r.Context(), auth.IdentityFromContext(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, deleteResponse{ID: id, Removals: batchView(res.Removals)})
}

// HandleArchive streams a zip of the listing's images.
func (h *ListingHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.listings.Get(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	var buf bytes.Buffer
	n, err := h.archiver.Archive(r.Context(), id, &buf)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+usecase.ArchiveName(id)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Archive-Files", strconv.Itoa(n))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Archive download interrupted", zap.String("listing_id", id), zap.Error(err))
	}
}

func (h *ListingHandler) readDraft(w http.ResponseWriter, r *http.Request) (domain.Draft, []domain.ImageFile, bool) {
	if err := parseMultipart(r); err != nil {
		writeBadRequest(w, h.logger, "invalid multipart form", nil)
		return domain.Draft{}, nil, false
	}
	draft := domain.Draft{
		Title:       r.FormValue("title"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
	}
	if err := h.validate.Struct(draft); err != nil {
		writeBadRequest(w, h.logger, domain.ErrInvalidListing.Error(), validationDetails(err))
		return domain.Draft{}, nil, false
	}
	files, err := readImages(r)
	if err != nil {
		writeBadRequest(w, h.logger, err.Error(), nil)
		return domain.Draft{}, nil, false
	}
	return draft, files, true
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
