package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"triple/pkg/logger"
	"triple/pkg/metrics"
	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/repository"
)

// LevelReconciler сверяет сохраненный уровень каждого пользователя
// с суммой его баллов и исправляет расхождения
type LevelReconciler struct {
	users     repository.UserRepository
	txManager repository.TxManager
}

func NewLevelReconciler(users repository.UserRepository, txManager repository.TxManager) *LevelReconciler {
	return &LevelReconciler{
		users:     users,
		txManager: txManager,
	}
}

// Reconcile возвращает число исправленных пользователей. Ошибка по одному
// пользователю не останавливает обход, все ошибки собираются вместе.
func (r *LevelReconciler) Reconcile(ctx context.Context) (int, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	users, err := r.users.List(ctx)
	if err != nil {
		metrics.LevelReconcileRuns.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	var (
		fixed int
		errs  []error
	)

	for i := range users {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		user := users[i]
		changed, err := r.reconcileUser(ctx, &user)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to reconcile user level")
			errs = append(errs, fmt.Errorf("user %s: %w", user.ID, mapRepositoryError(err)))
			continue
		}
		if changed {
			fixed++
		}
	}

	metrics.LevelReconcileDuration.Observe(time.Since(start).Seconds())

	status := "success"
	if len(errs) > 0 {
		status = "failed"
	}
	metrics.LevelReconcileRuns.WithLabelValues(status).Inc()

	log.Info().
		Int("users", len(users)).
		Int("fixed", fixed).
		Int("errors", len(errs)).
		Msg("User levels reconciled")

	return fixed, errors.Join(errs...)
}

func (r *LevelReconciler) reconcileUser(ctx context.Context, user *entity.User) (bool, error) {
	var newLevel int

	err := r.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		level, err := applyLevel(ctx, repos, user)
		if err != nil {
			return err
		}
		newLevel = level
		return nil
	})
	if err != nil {
		return false, err
	}

	if newLevel == user.Level {
		return false, nil
	}

	metrics.RecordLevelChange("reconciler", newLevel)
	logger.FromContext(ctx).Info().
		Str("user_id", user.ID.String()).
		Int("old_level", user.Level).
		Int("new_level", newLevel).
		Msg("User level corrected")
	return true, nil
}
