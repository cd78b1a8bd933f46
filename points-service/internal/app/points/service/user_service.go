package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"triple/pkg/logger"
	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/repository"
	"triple/points-service/internal/app/points/util"

	"github.com/google/uuid"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create регистрирует пользователя с уровнем 1
func (s *UserService) Create(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check user email: %w", err)
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:       uuid.New(),
		Email:    email,
		NickName: strings.TrimSpace(req.NickName),
		Password: hash,
		Level:    entity.DefaultUserLevel,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Параллельная регистрация с тем же email
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.FromContext(ctx).Info().Str("user_id", user.ID.String()).Msg("User created")
	return user, nil
}

func (s *UserService) UpdateNickName(ctx context.Context, email string, req *entity.UpdateUserRequest) (*entity.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	nickName := strings.TrimSpace(req.NickName)
	if err := s.users.UpdateNickName(ctx, user.ID, nickName); err != nil {
		return nil, mapRepositoryError(err)
	}

	user.NickName = nickName
	return user, nil
}

// Delete мягко удаляет пользователя, его баллы остаются в леджере
func (s *UserService) Delete(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := s.users.SoftDelete(ctx, user.ID); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.users.List(ctx)
}
