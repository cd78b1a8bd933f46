package repository

import (
	"context"
	"database/sql"
	"errors"

	"triple/pkg/metrics"

	"gorm.io/gorm"
)

// NewRepositories собирает все репозитории поверх одного *gorm.DB
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:   NewUserRepository(db),
		Places:  NewPlaceRepository(db),
		Reviews: NewReviewRepository(db),
		Images:  NewReviewImageRepository(db),
		Points:  NewPointRepository(db),
	}
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

// WithinTransaction открывает SERIALIZABLE транзакцию. Транзакция всегда
// завершается коммитом или откатом, даже если ctx отменен во время fn.
func (m *gormTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpTx, "")
	defer timer.ObserveDuration()

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	err = translateError(err, nil)
	if errors.Is(err, ErrSerializationConflict) {
		metrics.RecordTxConflict(serviceName)
	}
	return err
}
