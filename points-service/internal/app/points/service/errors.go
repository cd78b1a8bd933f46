package service

import (
	"errors"

	"triple/points-service/internal/app/points/repository"
)

var (
	// Ошибки бизнес-логики для обработки в handlers и consumer
	ErrUserNotFound        = errors.New("user does not exist")
	ErrReviewNotFound      = errors.New("review does not exist")
	ErrPlaceNotFound       = errors.New("place does not exist")
	ErrInvalidState        = errors.New("review point history is in an unexpected state")
	ErrConcurrentUpdate    = errors.New("concurrent update detected, retry the event")
	ErrReviewAlreadyExists = errors.New("user already wrote a review for this place")
	ErrUserAlreadyExists   = errors.New("user with this email already exists")
	ErrPlaceAlreadyExists  = errors.New("place with this name already exists")
)

// mapRepositoryError переводит ошибки репозитория в ошибки сервиса,
// остальные возвращает как есть
func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrReviewNotFound):
		return ErrReviewNotFound
	case errors.Is(err, repository.ErrPlaceNotFound):
		return ErrPlaceNotFound
	case errors.Is(err, repository.ErrSerializationConflict):
		return ErrConcurrentUpdate
	}
	return err
}
