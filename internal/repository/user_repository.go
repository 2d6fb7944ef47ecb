package repository

import (
	"context"

	"gorm.io/gorm"

	"flanes/internal/model"
)

// UserRepository stores accounts for registration and login.
type UserRepository interface {
	// Create inserts user. A taken username surfaces as gorm.ErrDuplicatedKey
	// from the unique index.
	Create(ctx context.Context, user *model.User) error
	// FindByUsername matches the username exactly and returns
	// gorm.ErrRecordNotFound when nobody has it.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := new(model.User)
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Take(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}
