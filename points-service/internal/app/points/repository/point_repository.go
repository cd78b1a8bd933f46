package repository

import (
	"context"
	"fmt"

	"triple/points-service/internal/app/points/entity"
	"triple/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serviceName = "points-service"

type pointRepository struct {
	db *gorm.DB
}

func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepository{db: db}
}

// Create добавляет запись в леджер. Обновления и удаления баллов не предусмотрены.
func (r *pointRepository) Create(ctx context.Context, point *entity.Point) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "points")
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Create(point).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create point: %w", translateError(err, nil))
	}
	return nil
}

// ListByReview - история баллов отзыва, новые первыми
func (r *pointRepository) ListByReview(ctx context.Context, reviewID uuid.UUID) ([]entity.Point, error) {
	var points []entity.Point
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order(pointHistoryOrder).
		Find(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list review points: %w", translateError(err, nil))
	}
	return points, nil
}

func (r *pointRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Point, error) {
	var points []entity.Point
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(pointHistoryOrder).
		Find(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user points: %w", err)
	}
	return points, nil
}

func (r *pointRepository) List(ctx context.Context) ([]entity.Point, error) {
	var points []entity.Point
	if err := r.db.WithContext(ctx).Order(pointHistoryOrder).Find(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	return points, nil
}

// SumByUser считает баллы в базе целыми числами, без потери точности
func (r *pointRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "points")
	defer timer.ObserveDuration()

	var total int64
	err := r.db.WithContext(ctx).
		Model(&entity.Point{}).
		Select("COALESCE(SUM(score), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return 0, fmt.Errorf("failed to sum user points: %w", translateError(err, nil))
	}
	return total, nil
}
