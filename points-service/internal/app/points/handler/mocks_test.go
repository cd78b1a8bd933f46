package handler

import (
	"context"

	"triple/points-service/internal/app/points/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDistributor struct {
	mock.Mock
}

func (m *MockDistributor) Distribute(ctx context.Context, event *entity.ReviewEvent) ([]entity.Point, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Point), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, req *entity.CreateReviewRequest) (*entity.ReviewEvent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewEvent), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, reviewID uuid.UUID, req *entity.UpdateReviewRequest) (*entity.ReviewEvent, error) {
	args := m.Called(ctx, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewEvent), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, reviewID uuid.UUID) (*entity.ReviewEvent, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewEvent), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, reviewID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) List(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

type MockPointService struct {
	mock.Mock
}

func (m *MockPointService) GetUserTotal(ctx context.Context, userID uuid.UUID) (*entity.UserTotalPoint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserTotalPoint), args.Error(1)
}

func (m *MockPointService) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Point, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Point), args.Error(1)
}

func (m *MockPointService) List(ctx context.Context) ([]entity.Point, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Point), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) UpdateNickName(ctx context.Context, email string, req *entity.UpdateUserRequest) (*entity.User, error) {
	args := m.Called(ctx, email, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserService) List(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

type MockPlaceService struct {
	mock.Mock
}

func (m *MockPlaceService) Create(ctx context.Context, req *entity.CreatePlaceRequest) (*entity.Place, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Place), args.Error(1)
}

func (m *MockPlaceService) GetByName(ctx context.Context, name string) (*entity.Place, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Place), args.Error(1)
}

func (m *MockPlaceService) List(ctx context.Context) ([]entity.Place, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Place), args.Error(1)
}
