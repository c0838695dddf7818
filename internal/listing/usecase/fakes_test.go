package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/stretchr/testify/mock"
)

const testBlobBase = "http://blob.test/listings-images/"

// memBlobStore is an in-memory BlobStore. failPut/failGet make single keys fail.
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut func(key string) bool
	failGet func(key string) bool
	deleted []string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: map[string][]byte{}}
}

func (s *memBlobStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if s.failPut != nil && s.failPut(key) {
		return "", errors.New("put refused")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return testBlobBase + key, nil
}

func (s *memBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.failGet != nil && s.failGet(key) {
		return nil, errors.New("get refused")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return data, nil
}

func (s *memBlobStore) List(_ context.Context, prefix string) ([]domain.BlobObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.BlobObject
	for k, v := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, domain.BlobObject{Key: k, Size: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *memBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return domain.ErrBlobNotFound
	}
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memBlobStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, testBlobBase) {
		return "", false
	}
	return strings.TrimPrefix(url, testBlobBase), true
}

func (s *memBlobStore) has(url string) bool {
	key, ok := s.KeyFromURL(url)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.objects[key]
	return found
}

// memRepo is an in-memory ListingRepository whose clock advances one second per insert.
type memRepo struct {
	mu    sync.Mutex
	docs  map[string]domain.Listing
	seq   int
	clock time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{docs: map[string]domain.Listing{}, clock: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func (r *memRepo) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return "listing-" + strconv.Itoa(r.seq)
}

func (r *memRepo) FetchAll(context.Context) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Listing, 0, len(r.docs))
	for _, d := range r.docs {
		d := d
		out = append(out, &d)
	}
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r *memRepo) Insert(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Second)
	doc := *l
	doc.Date = r.clock
	r.docs[l.ID] = doc
	return nil
}

func (r *memRepo) Replace(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[l.ID]; !ok {
		return domain.ErrNotFound
	}
	r.docs[l.ID] = *l
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

// racingRepo runs onFetch once, after the store read and before FetchAll returns.
type racingRepo struct {
	*memRepo
	onFetch func()
}

func (r *racingRepo) FetchAll(ctx context.Context) ([]*domain.Listing, error) {
	out, err := r.memRepo.FetchAll(ctx)
	if f := r.onFetch; f != nil {
		r.onFetch = nil
		f()
	}
	return out, err
}

// memBoardCache mirrors the Redis cache: one snapshot per generation, Invalidate bumps it.
type memBoardCache struct {
	mu        sync.Mutex
	gen       int64
	snapshots map[int64][]*domain.Listing
}

func newMemBoardCache() *memBoardCache {
	return &memBoardCache{snapshots: map[int64][]*domain.Listing{}}
}

func (c *memBoardCache) GetAll(context.Context) (int64, []*domain.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, c.snapshots[c.gen], nil
}

func (c *memBoardCache) SetAll(_ context.Context, gen int64, listings []*domain.Listing, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[gen] = listings
	return nil
}

func (c *memBoardCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return nil
}

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) NewID() string {
	return m.Called().String(0)
}
func (m *MockListingRepository) FetchAll(ctx context.Context) ([]*domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) Insert(ctx context.Context, l *domain.Listing) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockListingRepository) Replace(ctx context.Context, l *domain.Listing) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockImageLifecycle struct{ mock.Mock }

func (m *MockImageLifecycle) Upload(ctx context.Context, listingID string, files []domain.ImageFile) domain.BatchResult {
	return m.Called(ctx, listingID, files).Get(0).(domain.BatchResult)
}
func (m *MockImageLifecycle) DeleteAll(ctx context.Context, urls []string) domain.BatchResult {
	return m.Called(ctx, urls).Get(0).(domain.BatchResult)
}

type MockListingCache struct{ mock.Mock }

func (m *MockListingCache) GetAll(ctx context.Context) (int64, []*domain.Listing, error) {
	args := m.Called(ctx)
	listings, _ := args.Get(1).([]*domain.Listing)
	return args.Get(0).(int64), listings, args.Error(2)
}
func (m *MockListingCache) SetAll(ctx context.Context, gen int64, listings []*domain.Listing, ttl time.Duration) error {
	return m.Called(ctx, gen, listings, ttl).Error(0)
}
func (m *MockListingCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishListingCreated(ctx context.Context, e domain.ListingEvent) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockEventPublisher) PublishListingUpdated(ctx context.Context, e domain.ListingEvent) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockEventPublisher) PublishListingDeleted(ctx context.Context, e domain.ListingEvent) error {
	return m.Called(ctx, e).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) SendListingCreatedEmail(toEmail, listingTitle string) error {
	return m.Called(toEmail, listingTitle).Error(0)
}
