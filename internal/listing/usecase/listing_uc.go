package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ImageLifecycle is the part of ImageManager the listing workflow depends on.
type ImageLifecycle interface {
	Upload(ctx context.Context, listingID string, files []domain.ImageFile) domain.BatchResult
	DeleteAll(ctx context.Context, urls []string) domain.BatchResult
}

// CreateResult is a freshly created listing plus the outcome of each image upload.
type CreateResult struct {
	Listing *domain.Listing
	Uploads domain.BatchResult
}

// UpdateResult is the stored listing after an update plus per-image outcomes.
type UpdateResult struct {
	Listing  *domain.Listing
	Uploads  domain.BatchResult
	Removals domain.BatchResult
}

// DeleteResult reports which blobs could not be removed before the document was deleted.
type DeleteResult struct {
	Removals domain.BatchResult
}

// ListingUsecase coordinates the document store and the image blobs.
//
// Ownership is checked by comparing the caller's email with listing.Creator. The store
// itself enforces nothing, so real authorization has to live in the store's access rules.
type ListingUsecase struct {
	repo      domain.ListingRepository
	images    ImageLifecycle
	cache     domain.ListingCache
	publisher domain.EventPublisher
	notifier  domain.Notifier
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	sanitizer *bluemonday.Policy
	cacheTTL  time.Duration
	now       func() time.Time
}

// Option configures optional collaborators of ListingUsecase.
type Option func(*ListingUsecase)

func WithCache(c domain.ListingCache, ttl time.Duration) Option {
	return func(uc *ListingUsecase) {
		uc.cache = c
		uc.cacheTTL = ttl
	}
}

func WithPublisher(p domain.EventPublisher) Option {
	return func(uc *ListingUsecase) { uc.publisher = p }
}

func WithNotifier(n domain.Notifier) Option {
	return func(uc *ListingUsecase) { uc.notifier = n }
}

func WithMetrics(m *metrics.MetricsManager) Option {
	return func(uc *ListingUsecase) { uc.metrics = m }
}

func NewListingUsecase(repo domain.ListingRepository, images ImageLifecycle, log *logger.Logger, opts ...Option) *ListingUsecase {
	uc := &ListingUsecase{
		repo:      repo,
		images:    images,
		logger:    log.Named("ListingUsecase"),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// FetchAll returns every listing, newest first.
func (uc *ListingUsecase) FetchAll(ctx context.Context) ([]*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.FetchAll")
	defer span.End()

	// The generation is read before the store so a write finishing in between bumps it
	// and the snapshot filled below lands in a generation nobody reads any more.
	var gen int64
	fill := false
	if uc.cache != nil {
		g, cached, err := uc.cache.GetAll(ctx)
		switch {
		case err != nil:
			uc.logger.Warn("Board cache read failed", zap.Error(err))
		case cached != nil:
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		default:
			gen, fill = g, true
		}
	}

	listings, err := uc.repo.FetchAll(ctx)
	if err != nil {
		uc.logger.Error("FetchAll failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	sortByDateDesc(listings)

	if fill {
		if err := uc.cache.SetAll(ctx, gen, listings, uc.cacheTTL); err != nil {
			uc.logger.Warn("Board cache write failed", zap.Error(err))
		}
	}
	return listings, nil
}

// Get returns one listing by id.
func (uc *ListingUsecase) Get(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("Get failed", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}
	return listing, nil
}

// Create allocates an id, uploads images under it and writes the document. Listing.Images holds
// only the uploads that succeeded. Uploads are not rolled back when the write fails.
func (uc *ListingUsecase) Create(ctx context.Context, identity string, draft domain.Draft, files []domain.ImageFile) (*CreateResult, error) {
	if identity == "" {
		return nil, domain.ErrPermissionDenied
	}
	draft, err := uc.clean(draft)
	if err != nil {
		return nil, err
	}

	id := uc.repo.NewID()
	ctx, span := tracer.Start(ctx, "ListingUsecase.Create", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.Int("file_count", len(files)),
	))
	defer span.End()

	uc.logger.Info("Creating listing", zap.String("listing_id", id), zap.String("creator", identity), zap.String("title", draft.Title))

	uploads := uc.images.Upload(ctx, id, files)
	listing := &domain.Listing{
		ID:          id,
		Title:       draft.Title,
		Price:       draft.Price,
		Description: draft.Description,
		Images:      uploads.URLs(),
		Creator:     identity,
	}

	if err := uc.repo.Insert(ctx, listing); err != nil {
		uc.logger.Error("Insert failed, uploaded images are orphaned",
			zap.String("listing_id", id),
			zap.Strings("orphaned_urls", listing.Images),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return &CreateResult{Uploads: uploads}, wrapPersistence(err)
	}
	// The store's timestamp is not read back; the local clock stands in for display.
	listing.Date = uc.now().UTC()

	uc.metrics.ListingCreated()
	uc.invalidate(ctx)
	uc.publish(ctx, "created", listing)
	if uc.notifier != nil {
		if err := uc.notifier.SendListingCreatedEmail(identity, listing.Title); err != nil {
			uc.logger.Warn("Listing created email failed", zap.String("listing_id", id), zap.Error(err))
		}
	}
	return &CreateResult{Listing: listing, Uploads: uploads}, nil
}

// Update rewrites the whole document of an owned listing. Removed URLs not present in the
// stored images are ignored. Concurrent updates are not detected: the last write wins.
func (uc *ListingUsecase) Update(ctx context.Context, identity string, listing *domain.Listing, files []domain.ImageFile, removedURLs []string) (*UpdateResult, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Update", oteltrace.WithAttributes(attribute.String("listing_id", listing.ID)))
	defer span.End()

	stored, err := uc.repo.FindByID(ctx, listing.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("Update lookup failed", zap.String("listing_id", listing.ID), zap.Error(err))
		}
		return nil, err
	}
	if !stored.IsOwnedBy(identity) {
		uc.logger.Warn("Update forbidden",
			zap.String("listing_id", listing.ID),
			zap.String("creator", stored.Creator),
			zap.String("identity", identity),
		)
		return nil, domain.ErrPermissionDenied
	}
	draft, err := uc.clean(domain.Draft{Title: listing.Title, Price: listing.Price, Description: listing.Description})
	if err != nil {
		return nil, err
	}

	var toRemove []string
	removed := make(map[string]bool, len(removedURLs))
	for _, url := range removedURLs {
		if stored.HasImage(url) && !removed[url] {
			removed[url] = true
			toRemove = append(toRemove, url)
		}
	}
	removals := uc.images.DeleteAll(ctx, toRemove)
	uploads := uc.images.Upload(ctx, stored.ID, files)

	images := make([]string, 0, len(stored.Images)+len(files))
	for _, url := range stored.Images {
		if !removed[url] {
			images = append(images, url)
		}
	}
	images = append(images, uploads.URLs()...)

	updated := &domain.Listing{
		ID:          stored.ID,
		Title:       draft.Title,
		Price:       draft.Price,
		Description: draft.Description,
		Images:      images,
		Creator:     stored.Creator,
		Date:        stored.Date,
	}
	if err := uc.repo.Replace(ctx, updated); err != nil {
		uc.logger.Error("Replace failed", zap.String("listing_id", stored.ID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace failed")
		return nil, wrapPersistence(err)
	}

	uc.metrics.ListingUpdated()
	uc.invalidate(ctx)
	uc.publish(ctx, "updated", updated)
	return &UpdateResult{Listing: updated, Uploads: uploads, Removals: removals}, nil
}

// Delete removes an owned listing's blobs (best-effort) and then its document.
// A missing document yields ErrNotFound before any blob is touched.
func (uc *ListingUsecase) Delete(ctx context.Context, identity, id string) (*DeleteResult, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Delete", oteltrace.WithAttributes(attribute.String("listing_id", id)))
	defer span.End()

	stored, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("Delete lookup failed", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}
	if !stored.IsOwnedBy(identity) {
		uc.logger.Warn("Delete forbidden", zap.String("listing_id", id), zap.String("identity", identity))
		return nil, domain.ErrPermissionDenied
	}

	removals := uc.images.DeleteAll(ctx, stored.Images)
	if removals.HasFailures() {
		uc.logger.Warn("Some images could not be deleted", zap.String("listing_id", id), zap.Int("failed", len(removals.Failed())))
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		uc.logger.Error("Delete failed", zap.String("listing_id", id), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return nil, wrapPersistence(err)
	}

	uc.metrics.ListingDeleted()
	uc.invalidate(ctx)
	uc.publish(ctx, "deleted", stored)
	return &DeleteResult{Removals: removals}, nil
}

// clean strips markup from user text. The result is plain text, so entities are decoded again.
// clean strips markup from every field. Title and price must still have text afterwards.
func (uc *ListingUsecase) clean(d domain.Draft) (domain.Draft, error) {
	plain := func(s string) string {
		return strings.TrimSpace(html.UnescapeString(uc.sanitizer.Sanitize(s)))
	}
	out := domain.Draft{
		Title:       plain(d.Title),
		Price:       plain(d.Price),
		Description: plain(d.Description),
	}
	switch {
	case out.Title == "":
		return out, fmt.Errorf("%w: title is empty after removing markup", domain.ErrInvalidListing)
	case out.Price == "":
		return out, fmt.Errorf("%w: price is empty after removing markup", domain.ErrInvalidListing)
	}
	return out, nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("Board cache invalidation failed", zap.Error(err))
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, kind string, l *domain.Listing) {
	if uc.publisher == nil {
		return
	}
	event := domain.ListingEvent{
		ID:         l.ID,
		Title:      l.Title,
		Creator:    l.Creator,
		ImageCount: len(l.Images),
		OccurredAt: uc.now().UTC(),
	}
	var err error
	switch kind {
	case "created":
		err = uc.publisher.PublishListingCreated(ctx, event)
	case "updated":
		err = uc.publisher.PublishListingUpdated(ctx, event)
	case "deleted":
		err = uc.publisher.PublishListingDeleted(ctx, event)
	}
	if err != nil {
		uc.logger.Warn("Event publish failed", zap.String("kind", kind), zap.String("listing_id", l.ID), zap.Error(err))
	}
}

func wrapPersistence(err error) error {
	if errors.Is(err, domain.ErrRemoteUnavailable) || errors.Is(err, domain.ErrPersistence) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}

func sortByDateDesc(listings []*domain.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].Date.After(listings[j].Date)
	})
}
