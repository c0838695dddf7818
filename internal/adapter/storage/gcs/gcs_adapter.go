// Package gcs stores listing images in Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	blob "github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/storage"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com"

// Storage implements domain.BlobStore on a GCS bucket.
type Storage struct {
	client  *storage.Client
	bucket  *storage.BucketHandle
	baseURL string
	logger  *logger.Logger
}

// New opens a client. An empty credentialsFile falls back to application default credentials.
func New(ctx context.Context, bucket, credentialsFile string, log *logger.Logger) (*Storage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	log.Info("Initializing GCS Storage", zap.String("bucket", bucket))
	return &Storage{
		client:  client,
		bucket:  client.Bucket(bucket),
		baseURL: publicHost + "/" + bucket,
		logger:  log.Named("GCSStorage"),
	}, nil
}

func (s *Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		s.logger.Error("Write failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		s.logger.Error("Write failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return blob.PublicURL(s.baseURL, key), nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, wrap("get", key, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *Storage) List(ctx context.Context, prefix string) ([]domain.BlobObject, error) {
	var out []domain.BlobObject
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		out = append(out, domain.BlobObject{Key: attrs.Name, Size: attrs.Size})
	}
	return out, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Object(key).Delete(ctx); err != nil {
		return wrap("delete", key, err)
	}
	return nil
}

func (s *Storage) KeyFromURL(url string) (string, bool) {
	return blob.KeyFromURL(s.baseURL, url)
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func wrap(op, key string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%s %s: %w", op, key, domain.ErrBlobNotFound)
	}
	return fmt.Errorf("%s %s: %w", op, key, err)
}
