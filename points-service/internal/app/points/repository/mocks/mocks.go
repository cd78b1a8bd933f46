package mocks

import (
	"context"

	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateNickName(ctx context.Context, id uuid.UUID, nickName string) error {
	args := m.Called(ctx, id, nickName)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLevel(ctx context.Context, id uuid.UUID, level int) error {
	args := m.Called(ctx, id, level)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPlaceRepository мок для PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) Create(ctx context.Context, place *entity.Place) error {
	args := m.Called(ctx, place)
	return args.Error(0)
}

func (m *MockPlaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Place, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Place), args.Error(1)
}

func (m *MockPlaceRepository) GetByNameWithReviews(ctx context.Context, name string) (*entity.Place, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Place), args.Error(1)
}

func (m *MockPlaceRepository) List(ctx context.Context) ([]entity.Place, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Place), args.Error(1)
}

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByIDWithPoints(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetFirstByPlace(ctx context.Context, placeID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByUserAndPlace(ctx context.Context, userID, placeID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, userID, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockReviewRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewImageRepository мок для ReviewImageRepository
type MockReviewImageRepository struct {
	mock.Mock
}

func (m *MockReviewImageRepository) Create(ctx context.Context, image *entity.ReviewImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockReviewImageRepository) FindReusable(ctx context.Context, url string, reviewID uuid.UUID) (*entity.ReviewImage, error) {
	args := m.Called(ctx, url, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewImage), args.Error(1)
}

func (m *MockReviewImageRepository) AttachToReview(ctx context.Context, id, reviewID uuid.UUID) error {
	args := m.Called(ctx, id, reviewID)
	return args.Error(0)
}

func (m *MockReviewImageRepository) SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockPointRepository мок для PointRepository
type MockPointRepository struct {
	mock.Mock
}

func (m *MockPointRepository) Create(ctx context.Context, point *entity.Point) error {
	args := m.Called(ctx, point)
	return args.Error(0)
}

func (m *MockPointRepository) ListByReview(ctx context.Context, reviewID uuid.UUID) ([]entity.Point, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Point), args.Error(1)
}

func (m *MockPointRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Point, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Point), args.Error(1)
}

func (m *MockPointRepository) List(ctx context.Context) ([]entity.Point, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Point), args.Error(1)
}

func (m *MockPointRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPointCache мок для PointCache
type MockPointCache struct {
	mock.Mock
}

func (m *MockPointCache) GetTotal(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPointCache) SetTotal(ctx context.Context, userID uuid.UUID, total int64) error {
	args := m.Called(ctx, userID, total)
	return args.Error(0)
}

func (m *MockPointCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTxManager выполняет fn сразу с репозиториями Repos.
// Ошибка, заданная через Return, имитирует сбой коммита.
type MockTxManager struct {
	mock.Mock
	Repos repository.Repositories
}

func (m *MockTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	args := m.Called(ctx)
	if err := fn(ctx, m.Repos); err != nil {
		return err
	}
	return args.Error(0)
}

// MockMessagePublisher мок для MessagePublisher (Kafka)
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
