package repositories

import (
	"context"
	"fmt"

	"aviablog/internal/constants"
	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// FlightInfoRepository handles flight_infos table operations
type FlightInfoRepository struct {
	db *gorm.DB
}

// NewFlightInfoRepository creates a new flight info repository
func NewFlightInfoRepository(db *gorm.DB) *FlightInfoRepository {
	return &FlightInfoRepository{db: db}
}

// FindByNaturalKey retrieves a flight info row by (flight, airport code).
// Returns nil without error when no such row exists.
func (r *FlightInfoRepository) FindByNaturalKey(ctx context.Context, flightID uint, airportCode string) (*gormModels.FlightInfo, error) {
	var fi gormModels.FlightInfo

	err := r.db.WithContext(ctx).
		Where("flight_id = ? AND airport_code = ?", flightID, airportCode).
		First(&fi).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch flight info: %w", err)
	}

	return &fi, nil
}

// GetByStatus retrieves the single Departure or Arrival row of a flight,
// failing with ErrNotFound when the row is missing.
func (r *FlightInfoRepository) GetByStatus(ctx context.Context, flightID uint, status constants.FlightStatus) (*gormModels.FlightInfo, error) {
	var fi gormModels.FlightInfo

	err := r.db.WithContext(ctx).
		Where("flight_id = ? AND status = ?", flightID, status).
		First(&fi).Error
	if err != nil {
		return nil, translate(err)
	}
	return &fi, nil
}

// GetByID retrieves a flight info row by id, failing with ErrNotFound
func (r *FlightInfoRepository) GetByID(ctx context.Context, id uint) (*gormModels.FlightInfo, error) {
	var fi gormModels.FlightInfo

	if err := r.db.WithContext(ctx).First(&fi, id).Error; err != nil {
		return nil, translate(err)
	}
	return &fi, nil
}

// Create inserts a new flight info row, failing with ErrDuplicate on a
// natural-key collision
func (r *FlightInfoRepository) Create(ctx context.Context, fi *gormModels.FlightInfo) error {
	if err := r.db.WithContext(ctx).Create(fi).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save overwrites an existing flight info row in place
func (r *FlightInfoRepository) Save(ctx context.Context, fi *gormModels.FlightInfo) error {
	if err := r.db.WithContext(ctx).Save(fi).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes a flight info row, failing with ErrNotFound
func (r *FlightInfoRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&gormModels.FlightInfo{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
