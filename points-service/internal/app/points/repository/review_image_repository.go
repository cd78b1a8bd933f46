package repository

import (
	"context"
	"errors"
	"fmt"

	"triple/points-service/internal/app/points/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewImageRepository struct {
	db *gorm.DB
}

func NewReviewImageRepository(db *gorm.DB) ReviewImageRepository {
	return &reviewImageRepository{db: db}
}

func (r *reviewImageRepository) Create(ctx context.Context, image *entity.ReviewImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create review image: %w", err)
	}
	return nil
}

func (r *reviewImageRepository) FindReusable(ctx context.Context, url string, reviewID uuid.UUID) (*entity.ReviewImage, error) {
	var image entity.ReviewImage
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("url = ? AND (review_id = ? OR deleted_at IS NOT NULL)", url, reviewID).
		Order("deleted_at DESC NULLS FIRST").
		Take(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get review image: %w", err)
	}
	return &image, nil
}

// AttachToReview прикрепляет фото к отзыву и снимает мягкое удаление
func (r *reviewImageRepository) AttachToReview(ctx context.Context, id, reviewID uuid.UUID) error {
	result := r.db.WithContext(ctx).Unscoped().Model(&entity.ReviewImage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"review_id": reviewID, "deleted_at": nil})

	if result.Error != nil {
		return fmt.Errorf("failed to attach review image: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrImageNotFound
	}

	return nil
}

func (r *reviewImageRepository) SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Delete(&entity.ReviewImage{}, "id IN ?", ids).Error; err != nil {
		return fmt.Errorf("failed to delete review images: %w", err)
	}
	return nil
}
