package handler

import (
	"context"
	"io"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/salespost"
	"github.com/stretchr/testify/mock"
)

type MockListingService struct{ mock.Mock }

func (m *MockListingService) FetchAll(ctx context.Context) ([]*domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}

func (m *MockListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingService) Create(ctx context.Context, identity string, draft domain.Draft, files []domain.ImageFile) (*usecase.CreateResult, error) {
	args := m.Called(ctx, identity, draft, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateResult), args.Error(1)
}

func (m *MockListingService) Update(ctx context.Context, identity string, listing *domain.Listing, files []domain.ImageFile, removedURLs []string) (*usecase.UpdateResult, error) {
	args := m.Called(ctx, identity, listing, files, removedURLs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UpdateResult), args.Error(1)
}

func (m *MockListingService) Delete(ctx context.Context, identity, id string) (*usecase.DeleteResult, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteResult), args.Error(1)
}

type MockArchiver struct{ mock.Mock }

func (m *MockArchiver) Archive(ctx context.Context, listingID string, w io.Writer) (int, error) {
	args := m.Called(ctx, listingID, w)
	if payload, ok := args.Get(2).(string); ok && payload != "" {
		_, _ = io.WriteString(w, payload)
	}
	return args.Int(0), args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockPostGenerator struct{ mock.Mock }

func (m *MockPostGenerator) Generate(ctx context.Context, images []domain.ImageFile) (*salespost.Post, error) {
	args := m.Called(ctx, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salespost.Post), args.Error(1)
}
