package repository

import (
	"context"
	"errors"

	"triple/points-service/internal/app/points/entity"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrPlaceNotFound         = errors.New("place not found")
	ErrReviewNotFound        = errors.New("review not found")
	ErrImageNotFound         = errors.New("review image not found")
	ErrDuplicateKey          = errors.New("duplicate key")
	ErrSerializationConflict = errors.New("serialization conflict")
	ErrCacheMiss             = errors.New("cache miss")
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	UpdateNickName(ctx context.Context, id uuid.UUID, nickName string) error
	UpdateLevel(ctx context.Context, id uuid.UUID, level int) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type PlaceRepository interface {
	Create(ctx context.Context, place *entity.Place) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Place, error)
	GetByNameWithReviews(ctx context.Context, name string) (*entity.Place, error)
	List(ctx context.Context) ([]entity.Place, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	// GetByID не видит мягко удаленные отзывы
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	// GetByIDWithPoints находит и удаленный отзыв, вместе со всеми его баллами
	GetByIDWithPoints(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	// GetFirstByPlace возвращает самый ранний не удаленный отзыв места
	GetFirstByPlace(ctx context.Context, placeID uuid.UUID) (*entity.Review, error)
	FindByUserAndPlace(ctx context.Context, userID, placeID uuid.UUID) (*entity.Review, error)
	List(ctx context.Context) ([]entity.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Review, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type ReviewImageRepository interface {
	Create(ctx context.Context, image *entity.ReviewImage) error
	// FindReusable ищет фото с тем же URL, которое можно взять без ущерба для
	// других отзывов: уже прикрепленное к reviewID или мягко удаленное
	FindReusable(ctx context.Context, url string, reviewID uuid.UUID) (*entity.ReviewImage, error)
	AttachToReview(ctx context.Context, id, reviewID uuid.UUID) error
	SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// PointRepository - только вставка и чтение, записи леджера неизменяемы
type PointRepository interface {
	Create(ctx context.Context, point *entity.Point) error
	ListByReview(ctx context.Context, reviewID uuid.UUID) ([]entity.Point, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Point, error)
	List(ctx context.Context) ([]entity.Point, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// PointCache - кеш суммы баллов пользователя
type PointCache interface {
	GetTotal(ctx context.Context, userID uuid.UUID) (int64, error)
	SetTotal(ctx context.Context, userID uuid.UUID, total int64) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Repositories - набор репозиториев, привязанных к одному соединению или транзакции
type Repositories struct {
	Users   UserRepository
	Places  PlaceRepository
	Reviews ReviewRepository
	Images  ReviewImageRepository
	Points  PointRepository
}

// TxManager выполняет fn в одной SERIALIZABLE транзакции.
// Ошибка fn откатывает транзакцию, nil коммитит ее.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
