package repository

import (
	"context"
	"fmt"

	"triple/points-service/internal/app/points/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает репозиторий пользователей поверх соединения или транзакции
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err, nil))
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, r.wrapGet(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, r.wrapGet(err)
	}
	return &user, nil
}

func (r *userRepository) wrapGet(err error) error {
	err = translateError(err, ErrUserNotFound)
	if err == ErrUserNotFound {
		return err
	}
	return fmt.Errorf("failed to get user: %w", err)
}

func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateNickName(ctx context.Context, id uuid.UUID, nickName string) error {
	return r.update(ctx, id, "nick_name", nickName)
}

// UpdateLevel вызывается только внутри транзакции начисления или пересчета
func (r *userRepository) UpdateLevel(ctx context.Context, id uuid.UUID, level int) error {
	return r.update(ctx, id, "level", level)
}

func (r *userRepository) update(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Update(column, value)

	if result.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", column, translateError(result.Error, nil))
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
