package service

import (
	"context"
	"errors"
	"fmt"

	"triple/pkg/logger"
	"triple/pkg/metrics"
	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Distributor превращает события отзывов в записи леджера и пересчитывает уровень.
// Проверки пользователя и отзыва выполняются до транзакции: между проверкой
// и записью отзыв может быть изменен, это допустимо.
type Distributor struct {
	users     repository.UserRepository
	reviews   repository.ReviewRepository
	points    repository.PointRepository
	txManager repository.TxManager
	cache     repository.PointCache
}

// NewDistributor создает distributor. cache может быть nil.
func NewDistributor(
	users repository.UserRepository,
	reviews repository.ReviewRepository,
	points repository.PointRepository,
	txManager repository.TxManager,
	cache repository.PointCache,
) *Distributor {
	return &Distributor{
		users:     users,
		reviews:   reviews,
		points:    points,
		txManager: txManager,
		cache:     cache,
	}
}

// Distribute обрабатывает одно событие. ADD и DELETE возвращают до двух баллов,
// MOD - ноль или один. Неизвестное действие игнорируется.
func (d *Distributor) Distribute(ctx context.Context, event *entity.ReviewEvent) ([]entity.Point, error) {
	var (
		points []entity.Point
		err    error
	)

	switch event.Action {
	case entity.ActionAdd:
		points, err = d.add(ctx, event)
	case entity.ActionMod:
		points, err = d.modify(ctx, event)
	case entity.ActionDelete:
		points, err = d.delete(ctx, event)
	default:
		logger.FromContext(ctx).Warn().
			Str("action", string(event.Action)).
			Str("review_id", event.ReviewID.String()).
			Msg("Unknown review event action, skipping")
		metrics.RecordEventDistributed(string(event.Action), "skipped")
		return []entity.Point{}, nil
	}

	if err != nil {
		metrics.RecordEventDistributed(string(event.Action), "failed")
		d.logFailure(ctx, event, err)
		return nil, err
	}

	outcome := "awarded"
	if len(points) == 0 {
		outcome = "skipped"
	}
	metrics.RecordEventDistributed(string(event.Action), outcome)

	return points, nil
}

func (d *Distributor) add(ctx context.Context, event *entity.ReviewEvent) ([]entity.Point, error) {
	user, review, err := d.resolve(ctx, event)
	if err != nil {
		return nil, err
	}

	first, err := d.isFirstForPlace(ctx, review)
	if err != nil {
		return nil, err
	}

	return d.persist(ctx, event, user, review, scoreAdd(event.HasPhotos(), first))
}

func (d *Distributor) modify(ctx context.Context, event *entity.ReviewEvent) ([]entity.Point, error) {
	user, review, err := d.resolve(ctx, event)
	if err != nil {
		return nil, err
	}

	history, err := d.points.ListByReview(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review points: %w", err)
	}

	delta, err := scoreModify(history, event.HasPhotos())
	if err != nil {
		return nil, err
	}

	// Фото не менялись: без записи и без транзакции
	if delta == nil {
		return []entity.Point{}, nil
	}

	return d.persist(ctx, event, user, review, []pointDelta{*delta})
}

func (d *Distributor) delete(ctx context.Context, event *entity.ReviewEvent) ([]entity.Point, error) {
	user, review, err := d.resolve(ctx, event)
	if err != nil {
		return nil, err
	}

	history, err := d.points.ListByReview(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review points: %w", err)
	}

	deltas, err := scoreDelete(history, review.Points)
	if err != nil {
		return nil, err
	}

	return d.persist(ctx, event, user, review, deltas)
}

// resolve находит пользователя и отзыв, включая удаленный
func (d *Distributor) resolve(ctx context.Context, event *entity.ReviewEvent) (*entity.User, *entity.Review, error) {
	user, err := d.users.GetByID(ctx, event.UserID)
	if err != nil {
		return nil, nil, mapRepositoryError(err)
	}

	review, err := d.reviews.GetByIDWithPoints(ctx, event.ReviewID)
	if err != nil {
		return nil, nil, mapRepositoryError(err)
	}

	return user, review, nil
}

// isFirstForPlace пересчитывается при каждом ADD, отдельного флага нет
func (d *Distributor) isFirstForPlace(ctx context.Context, review *entity.Review) (bool, error) {
	first, err := d.reviews.GetFirstByPlace(ctx, review.PlaceID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find first review for place: %w", err)
	}
	return first.ID == review.ID, nil
}

func (d *Distributor) persist(
	ctx context.Context,
	event *entity.ReviewEvent,
	user *entity.User,
	review *entity.Review,
	deltas []pointDelta,
) ([]entity.Point, error) {
	var (
		written  []entity.Point
		newLevel int
	)

	err := d.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		written = make([]entity.Point, 0, len(deltas))

		for _, delta := range deltas {
			point := entity.Point{
				ID:       uuid.New(),
				Type:     entity.PointTypeReview,
				Action:   event.Action,
				Reason:   delta.Reason,
				Score:    delta.Score,
				UserID:   user.ID,
				ReviewID: review.ID,
			}
			if err := repos.Points.Create(ctx, &point); err != nil {
				return err
			}
			written = append(written, point)
		}

		level, err := applyLevel(ctx, repos, user)
		if err != nil {
			return err
		}
		newLevel = level
		return nil
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	for _, p := range written {
		metrics.RecordPointWritten(string(p.Reason), p.Score)
	}
	if newLevel != user.Level {
		metrics.RecordLevelChange("distributor", newLevel)
		logger.FromContext(ctx).Info().
			Str("user_id", user.ID.String()).
			Int("old_level", user.Level).
			Int("new_level", newLevel).
			Msg("User level changed")
	}

	d.invalidateTotal(ctx, user.ID)

	logger.FromContext(ctx).Info().
		Str("action", string(event.Action)).
		Str("review_id", review.ID.String()).
		Str("user_id", user.ID.String()).
		Int("points", len(written)).
		Msg("Review points distributed")

	return written, nil
}

// applyLevel пересчитывает уровень по сумме баллов внутри транзакции
// и пишет его, только если он изменился
func applyLevel(ctx context.Context, repos repository.Repositories, user *entity.User) (int, error) {
	total, err := repos.Points.SumByUser(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	level := LevelForScore(total)
	if level == user.Level {
		return level, nil
	}

	if err := repos.Users.UpdateLevel(ctx, user.ID, level); err != nil {
		return 0, err
	}
	return level, nil
}

func (d *Distributor) invalidateTotal(ctx context.Context, userID uuid.UUID) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Invalidate(ctx, userID); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to invalidate cached point total")
	}
}

func (d *Distributor) logFailure(ctx context.Context, event *entity.ReviewEvent, err error) {
	level := zerolog.ErrorLevel
	if IsPermanentError(err) && !errors.Is(err, ErrInvalidState) {
		level = zerolog.WarnLevel
	}

	logger.FromContext(ctx).WithLevel(level).
		Err(err).
		Str("action", string(event.Action)).
		Str("review_id", event.ReviewID.String()).
		Str("user_id", event.UserID.String()).
		Msg("Failed to distribute review points")
}

// IsPermanentError - ошибки, которые не исправит повторная обработка события
func IsPermanentError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrInvalidState)
}
