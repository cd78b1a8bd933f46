package repository

import (
	"context"
	"errors"
	"fmt"

	"triple/points-service/internal/app/points/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) Create(ctx context.Context, place *entity.Place) error {
	if err := r.db.WithContext(ctx).Create(place).Error; err != nil {
		return fmt.Errorf("failed to create place: %w", translateError(err, nil))
	}
	return nil
}

func (r *placeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Place, error) {
	var place entity.Place
	err := r.db.WithContext(ctx).First(&place, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return &place, nil
}

// GetByNameWithReviews подгружает не удаленные отзывы места
func (r *placeRepository) GetByNameWithReviews(ctx context.Context, name string) (*entity.Place, error) {
	var place entity.Place
	err := r.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("name = ?", name).
		First(&place).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("failed to get place by name: %w", err)
	}
	return &place, nil
}

func (r *placeRepository) List(ctx context.Context) ([]entity.Place, error) {
	var places []entity.Place
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&places).Error; err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return places, nil
}
