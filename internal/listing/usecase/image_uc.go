package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"
	"github.com/klauspost/compress/zip"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultBlobConcurrency = 4

var tracer = otel.Tracer("estate-service/listing-usecase")

// ListingPrefix is the blob key prefix owning every image of a listing.
func ListingPrefix(listingID string) string {
	return "listings/" + listingID + "/"
}

// ObjectKey builds listings/{listingId}/{token}-{filename}.
func ObjectKey(listingID string, token int64, fileName string) string {
	return fmt.Sprintf("%s%d-%s", ListingPrefix(listingID), token, cleanFileName(fileName))
}

func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}

// ImageManager owns the blobs behind listing images.
type ImageManager struct {
	store       domain.BlobStore
	logger      *logger.Logger
	metrics     *metrics.MetricsManager
	now         func() time.Time
	lastToken   atomic.Int64
	concurrency int
}

func NewImageManager(store domain.BlobStore, log *logger.Logger, m *metrics.MetricsManager) *ImageManager {
	return &ImageManager{
		store:       store,
		logger:      log.Named("ImageManager"),
		metrics:     m,
		now:         time.Now,
		concurrency: defaultBlobConcurrency,
	}
}

// nextToken returns a millisecond timestamp that is strictly greater than any previous token.
func (m *ImageManager) nextToken() int64 {
	now := m.now().UnixMilli()
	for {
		last := m.lastToken.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if m.lastToken.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Upload stores files under the listing's prefix. Items are independent: one failure
// neither cancels nor rolls back the others. Results keep the input order.
func (m *ImageManager) Upload(ctx context.Context, listingID string, files []domain.ImageFile) domain.BatchResult {
	result := domain.BatchResult{Items: make([]domain.ItemResult, len(files))}
	if len(files) == 0 {
		return result
	}

	ctx, span := tracer.Start(ctx, "ImageManager.Upload", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
		attribute.Int("file_count", len(files)),
	))
	defer span.End()

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i, f := range files {
		i, f := i, f
		key := ObjectKey(listingID, m.nextToken(), f.Name)
		g.Go(func() error {
			url, err := m.store.Put(ctx, key, f.Data, contentTypeOf(f))
			if err != nil {
				m.logger.Warn("Upload failed", zap.String("listing_id", listingID), zap.String("key", key), zap.Error(err))
				m.metrics.BlobFailure("upload")
				result.Items[i] = domain.ItemResult{Name: f.Name, Err: fmt.Errorf("upload %s: %w", f.Name, err)}
				return nil
			}
			result.Items[i] = domain.ItemResult{Name: f.Name, URL: url}
			return nil
		})
	}
	_ = g.Wait()

	if result.HasFailures() {
		span.SetStatus(codes.Error, "partial upload")
	}
	m.logger.Info("Upload finished",
		zap.String("listing_id", listingID),
		zap.Int("uploaded", len(result.URLs())),
		zap.Int("failed", len(result.Failed())),
	)
	return result
}

// Delete removes one blob by URL. Failures are logged and returned; callers treat them as non-fatal.
// A blob that is already gone and a transient failure look the same to the caller.
func (m *ImageManager) Delete(ctx context.Context, url string) error {
	key, ok := m.store.KeyFromURL(url)
	if !ok {
		m.logger.Warn("Delete skipped, URL does not belong to the blob store", zap.String("url", url))
		m.metrics.BlobFailure("delete")
		return fmt.Errorf("url %q is not managed by the blob store", url)
	}
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.Warn("Delete failed", zap.String("key", key), zap.Error(err))
		m.metrics.BlobFailure("delete")
		return fmt.Errorf("delete %s: %w", key, err)
	}
	m.logger.Debug("Blob deleted", zap.String("key", key))
	return nil
}

// DeleteAll deletes urls concurrently and reports each outcome in input order.
func (m *ImageManager) DeleteAll(ctx context.Context, urls []string) domain.BatchResult {
	result := domain.BatchResult{Items: make([]domain.ItemResult, len(urls))}
	if len(urls) == 0 {
		return result
	}

	ctx, span := tracer.Start(ctx, "ImageManager.DeleteAll", oteltrace.WithAttributes(attribute.Int("url_count", len(urls))))
	defer span.End()

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			result.Items[i] = domain.ItemResult{Name: url, URL: url, Err: m.Delete(ctx, url)}
			return nil
		})
	}
	_ = g.Wait()
	return result
}

// ArchiveName is the file name offered for a listing's archive download.
func ArchiveName(listingID string) string {
	return "listing-" + listingID + "-images.zip"
}

// Archive writes a zip of every blob under the listing's prefix to w. All blobs are
// fetched before anything is written, so a fetch failure leaves w untouched.
func (m *ImageManager) Archive(ctx context.Context, listingID string, w io.Writer) (int, error) {
	ctx, span := tracer.Start(ctx, "ImageManager.Archive", oteltrace.WithAttributes(attribute.String("listing_id", listingID)))
	defer span.End()

	prefix := ListingPrefix(listingID)
	objects, err := m.store.List(ctx, prefix)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return 0, fmt.Errorf("%w: list %s: %v", domain.ErrArchive, prefix, err)
	}

	contents := make([][]byte, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, obj := range objects {
		i, obj := i, obj
		g.Go(func() error {
			data, err := m.store.Get(gctx, obj.Key)
			if err != nil {
				m.metrics.BlobFailure("fetch")
				return fmt.Errorf("fetch %s: %w", obj.Key, err)
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.logger.Error("Archive aborted", zap.String("listing_id", listingID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return 0, fmt.Errorf("%w: %v", domain.ErrArchive, err)
	}

	zw := zip.NewWriter(w)
	modified := m.now()
	for i, obj := range objects {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     strings.TrimPrefix(obj.Key, prefix),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return 0, fmt.Errorf("write archive entry %s: %w", obj.Key, err)
		}
		if _, err := fw.Write(contents[i]); err != nil {
			return 0, fmt.Errorf("write archive entry %s: %w", obj.Key, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("close archive: %w", err)
	}

	m.logger.Info("Archive written", zap.String("listing_id", listingID), zap.Int("files", len(objects)))
	return len(objects), nil
}

func contentTypeOf(f domain.ImageFile) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return http.DetectContentType(f.Data)
}
