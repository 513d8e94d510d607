package repositories

import (
	"context"
	"fmt"

	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// UserRepository handles users table operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername retrieves a user by username, failing with ErrNotFound
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*gormModels.User, error) {
	var u gormModels.User

	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetByID retrieves a user by id, failing with ErrNotFound
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*gormModels.User, error) {
	var u gormModels.User

	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *gormModels.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}
