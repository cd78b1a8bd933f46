package service

import (
	"context"
	"errors"
	"fmt"

	"triple/pkg/logger"
	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/repository"

	"github.com/google/uuid"
)

type PointService struct {
	users  repository.UserRepository
	points repository.PointRepository
	cache  repository.PointCache
}

// NewPointService создает сервис чтения баллов. cache может быть nil.
func NewPointService(users repository.UserRepository, points repository.PointRepository, cache repository.PointCache) *PointService {
	return &PointService{
		users:  users,
		points: points,
		cache:  cache,
	}
}

// GetUserTotal возвращает пользователя и сумму его баллов.
// Сумма берется из кеша, при промахе считается в БД и кладется в кеш.
func (s *PointService) GetUserTotal(ctx context.Context, userID uuid.UUID) (*entity.UserTotalPoint, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	total, err := s.total(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entity.UserTotalPoint{User: user, TotalPoint: total}, nil
}

func (s *PointService) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Point, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapRepositoryError(err)
	}
	return s.points.ListByUser(ctx, userID)
}

func (s *PointService) List(ctx context.Context) ([]entity.Point, error) {
	return s.points.List(ctx)
}

func (s *PointService) total(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		total, err := s.cache.GetTotal(ctx, userID)
		if err == nil {
			return total, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to read cached point total")
		}
	}

	total, err := s.points.SumByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum user points: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetTotal(ctx, userID, total); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to cache point total")
		}
	}

	return total, nil
}
