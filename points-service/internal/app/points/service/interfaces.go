package service

import (
	"context"

	"triple/points-service/internal/app/points/entity"

	"github.com/google/uuid"
)

type DistributorInterface interface {
	Distribute(ctx context.Context, event *entity.ReviewEvent) ([]entity.Point, error)
}

type ReviewServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateReviewRequest) (*entity.ReviewEvent, error)
	Update(ctx context.Context, reviewID uuid.UUID, req *entity.UpdateReviewRequest) (*entity.ReviewEvent, error)
	Delete(ctx context.Context, reviewID uuid.UUID) (*entity.ReviewEvent, error)
	Get(ctx context.Context, reviewID uuid.UUID) (*entity.Review, error)
	List(ctx context.Context) ([]entity.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Review, error)
}

type UserServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error)
	UpdateNickName(ctx context.Context, email string, req *entity.UpdateUserRequest) (*entity.User, error)
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]entity.User, error)
}

type PlaceServiceInterface interface {
	Create(ctx context.Context, req *entity.CreatePlaceRequest) (*entity.Place, error)
	GetByName(ctx context.Context, name string) (*entity.Place, error)
	List(ctx context.Context) ([]entity.Place, error)
}

type PointServiceInterface interface {
	GetUserTotal(ctx context.Context, userID uuid.UUID) (*entity.UserTotalPoint, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Point, error)
	List(ctx context.Context) ([]entity.Point, error)
}

type LevelReconcilerInterface interface {
	Reconcile(ctx context.Context) (int, error)
}
