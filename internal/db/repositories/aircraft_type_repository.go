package repositories

import (
	"context"
	"fmt"

	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// AircraftTypeRepository handles aircraft_types table operations
type AircraftTypeRepository struct {
	db *gorm.DB
}

// NewAircraftTypeRepository creates a new aircraft type repository
func NewAircraftTypeRepository(db *gorm.DB) *AircraftTypeRepository {
	return &AircraftTypeRepository{db: db}
}

// FindByNaturalKey retrieves an aircraft type by (manufacturer, generic type).
// Returns nil without error when no such type exists.
func (r *AircraftTypeRepository) FindByNaturalKey(ctx context.Context, manufacturer, genericType string) (*gormModels.AircraftType, error) {
	var t gormModels.AircraftType

	err := r.db.WithContext(ctx).
		Where("manufacturer = ? AND generic_type = ?", manufacturer, genericType).
		First(&t).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch aircraft type: %w", err)
	}

	return &t, nil
}

// GetByID retrieves an aircraft type by id, failing with ErrNotFound
func (r *AircraftTypeRepository) GetByID(ctx context.Context, id uint) (*gormModels.AircraftType, error) {
	var t gormModels.AircraftType

	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// Create inserts a new aircraft type, failing with ErrDuplicate on a
// natural-key collision
func (r *AircraftTypeRepository) Create(ctx context.Context, t *gormModels.AircraftType) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save overwrites an existing aircraft type in place
func (r *AircraftTypeRepository) Save(ctx context.Context, t *gormModels.AircraftType) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the aircraft type. Airframes referencing it survive with
// the reference nulled.
func (r *AircraftTypeRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Airframe{}).
		Where("aircraft_type_id = ?", id).
		Update("aircraft_type_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to detach airframes: %w", err)
	}

	res := r.db.WithContext(ctx).Delete(&gormModels.AircraftType{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
