package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/repository"

	"github.com/google/uuid"
)

type PlaceService struct {
	places repository.PlaceRepository
}

func NewPlaceService(places repository.PlaceRepository) *PlaceService {
	return &PlaceService{places: places}
}

// Create создает место, имя уникально
func (s *PlaceService) Create(ctx context.Context, req *entity.CreatePlaceRequest) (*entity.Place, error) {
	place := &entity.Place{
		ID:   uuid.New(),
		Name: strings.TrimSpace(req.Name),
	}

	if err := s.places.Create(ctx, place); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrPlaceAlreadyExists
		}
		return nil, fmt.Errorf("failed to create place: %w", err)
	}
	return place, nil
}

func (s *PlaceService) GetByName(ctx context.Context, name string) (*entity.Place, error) {
	place, err := s.places.GetByNameWithReviews(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return place, nil
}

func (s *PlaceService) List(ctx context.Context) ([]entity.Place, error) {
	return s.places.List(ctx)
}
