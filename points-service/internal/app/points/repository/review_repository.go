package repository

import (
	"context"
	"errors"
	"fmt"

	"triple/points-service/internal/app/points/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// pointHistoryOrder - новые баллы первыми, seq различает записи одной транзакции
const pointHistoryOrder = "created_at DESC, seq DESC"

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	// Фото сохраняются отдельно через ReviewImageRepository
	err := r.db.WithContext(ctx).Omit("Images", "Points", "User", "Place").Create(review).Error
	if err != nil {
		return fmt.Errorf("failed to create review: %w", translateError(err, nil))
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	err := r.db.WithContext(ctx).
		Preload("Images").
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, r.notFound(err)
	}
	return &review, nil
}

func (r *reviewRepository) GetByIDWithPoints(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	err := r.db.WithContext(ctx).
		Unscoped().
		Preload("Points", func(db *gorm.DB) *gorm.DB {
			return db.Order(pointHistoryOrder)
		}).
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, r.notFound(err)
	}
	return &review, nil
}

func (r *reviewRepository) GetFirstByPlace(ctx context.Context, placeID uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	err := r.db.WithContext(ctx).
		Where("place_id = ?", placeID).
		Order("created_at ASC").
		Take(&review).Error
	if err != nil {
		return nil, r.notFound(err)
	}
	return &review, nil
}

func (r *reviewRepository) FindByUserAndPlace(ctx context.Context, userID, placeID uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Take(&review).Error
	if err != nil {
		return nil, r.notFound(err)
	}
	return &review, nil
}

func (r *reviewRepository) notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	return fmt.Errorf("failed to get review: %w", err)
}

func (r *reviewRepository) List(ctx context.Context) ([]entity.Review, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Review, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *reviewRepository) list(q *gorm.DB) ([]entity.Review, error) {
	var reviews []entity.Review
	err := q.
		Preload("User").
		Preload("Place").
		Preload("Images").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	result := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("id = ?", id).
		Update("content", content)

	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", translateError(result.Error, nil))
	}

	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// SoftDelete проставляет deleted_at, баллы отзыва остаются в леджере
func (r *reviewRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Review{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}
