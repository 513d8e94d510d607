package repositories

import (
	"context"
	"fmt"

	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// AirframeRepository handles airframes table operations
type AirframeRepository struct {
	db *gorm.DB
}

// NewAirframeRepository creates a new airframe repository
func NewAirframeRepository(db *gorm.DB) *AirframeRepository {
	return &AirframeRepository{db: db}
}

// FindByNaturalKey retrieves an airframe by (serial number, registration).
// Returns nil without error when no such airframe exists.
func (r *AirframeRepository) FindByNaturalKey(ctx context.Context, serialNumber, registrationNumber string) (*gormModels.Airframe, error) {
	var a gormModels.Airframe

	err := r.db.WithContext(ctx).
		Where("serial_number = ? AND registration_number = ?", serialNumber, registrationNumber).
		First(&a).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch airframe: %w", err)
	}

	return &a, nil
}

// GetByID retrieves an airframe by id, failing with ErrNotFound
func (r *AirframeRepository) GetByID(ctx context.Context, id uint) (*gormModels.Airframe, error) {
	var a gormModels.Airframe

	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Create inserts a new airframe, failing with ErrDuplicate on a
// natural-key collision
func (r *AirframeRepository) Create(ctx context.Context, a *gormModels.Airframe) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save overwrites an existing airframe in place
func (r *AirframeRepository) Save(ctx context.Context, a *gormModels.Airframe) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the airframe row and reports its photo key as garbage.
// Flights referencing it keep running with the reference nulled; callers
// that want the "last referencer cleans up" rule go through FlightRepository.
func (r *AirframeRepository) Delete(ctx context.Context, id uint) (orphanedBlobs []string, err error) {
	airframe, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detach := r.db.WithContext(ctx).
		Model(&gormModels.Flight{}).
		Where("airframe_id = ?", id).
		Update("airframe_id", nil)
	if detach.Error != nil {
		return nil, fmt.Errorf("failed to detach flights: %w", detach.Error)
	}

	if err := r.db.WithContext(ctx).Delete(&gormModels.Airframe{}, id).Error; err != nil {
		return nil, translate(err)
	}

	if airframe.Photo != "" {
		orphanedBlobs = append(orphanedBlobs, airframe.Photo)
	}
	return orphanedBlobs, nil
}
