package repositories

import (
	"context"
	"fmt"

	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// AirlineRepository handles airlines table operations
type AirlineRepository struct {
	db *gorm.DB
}

// NewAirlineRepository creates a new airline repository
func NewAirlineRepository(db *gorm.DB) *AirlineRepository {
	return &AirlineRepository{db: db}
}

// FindByName retrieves an airline by its unique name.
// Returns nil without error when no such airline exists.
func (r *AirlineRepository) FindByName(ctx context.Context, name string) (*gormModels.Airline, error) {
	var a gormModels.Airline

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&a).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch airline: %w", err)
	}

	return &a, nil
}

// GetByID retrieves an airline by id, failing with ErrNotFound
func (r *AirlineRepository) GetByID(ctx context.Context, id uint) (*gormModels.Airline, error) {
	var a gormModels.Airline

	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Create inserts a new airline, failing with ErrDuplicate on a name collision
func (r *AirlineRepository) Create(ctx context.Context, a *gormModels.Airline) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save overwrites an existing airline in place
func (r *AirlineRepository) Save(ctx context.Context, a *gormModels.Airline) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the airline. Fleet airframes survive with the reference nulled.
func (r *AirlineRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Airframe{}).
		Where("airline_id = ?", id).
		Update("airline_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to detach fleet: %w", err)
	}

	res := r.db.WithContext(ctx).Delete(&gormModels.Airline{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
