package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"triple/points-service/internal/app/points/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWithinTransaction_CommitsPointAndLevel(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	txManager := NewTxManager(db)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "points"`)).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(1)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "level"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := txManager.WithinTransaction(context.Background(), func(ctx context.Context, repos Repositories) error {
		point := &entity.Point{ID: uuid.New(), Reason: entity.ReasonReviewAdd, Score: 1, UserID: userID}
		if err := repos.Points.Create(ctx, point); err != nil {
			return err
		}
		return repos.Users.UpdateLevel(ctx, userID, 2)
	})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	txManager := NewTxManager(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "points"`)).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(1)))
	mock.ExpectRollback()

	// Act
	err := txManager.WithinTransaction(context.Background(), func(ctx context.Context, repos Repositories) error {
		if err := repos.Points.Create(ctx, &entity.Point{ID: uuid.New(), Score: 1}); err != nil {
			return err
		}
		return boom
	})

	// Assert
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_SerializationFailureOnCommit(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	txManager := NewTxManager(db)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})

	// Act
	err := txManager.WithinTransaction(context.Background(), func(ctx context.Context, repos Repositories) error {
		return nil
	})

	// Assert
	assert.ErrorIs(t, err, ErrSerializationConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil, ErrUserNotFound))
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "40P01"}, nil), ErrSerializationConflict)
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "23505"}, nil), ErrDuplicateKey)

	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(other), translateError(other, nil))
}
