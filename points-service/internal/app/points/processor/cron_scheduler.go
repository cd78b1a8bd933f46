package processor

import (
	"context"
	"time"

	"triple/pkg/logger"
	"triple/points-service/internal/app/points/service"

	"github.com/robfig/cron/v3"
)

// cronLogger передает логи cron в общий zerolog
type cronLogger struct{}

func (cronLogger) Printf(format string, v ...interface{}) {
	logger.Printf(format, v...)
}

// CronScheduler периодически сверяет уровни пользователей с суммой баллов
type CronScheduler struct {
	cron       *cron.Cron
	reconciler service.LevelReconcilerInterface
}

func NewCronScheduler(reconciler service.LevelReconcilerInterface) *CronScheduler {
	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(cronLogger{})),
		// Запуски не накладываются друг на друга
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(cronLogger{}))),
	)

	return &CronScheduler{
		cron:       c,
		reconciler: reconciler,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.run(ctx, "scheduled")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	s.run(ctx, "initial")
	return nil
}

func (s *CronScheduler) run(ctx context.Context, trigger string) {
	start := time.Now()

	fixed, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		logger.Error().Err(err).Str("trigger", trigger).Int("fixed", fixed).Msg("Level reconciliation finished with errors")
		return
	}

	logger.Info().
		Str("trigger", trigger).
		Int("fixed", fixed).
		Dur("duration", time.Since(start)).
		Msg("Level reconciliation completed")
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
