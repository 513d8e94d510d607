package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// FlightRepository handles flights table operations
type FlightRepository struct {
	db *gorm.DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// FindByNaturalKey retrieves a flight by (flight number, date).
// Returns nil without error when no such flight exists.
func (r *FlightRepository) FindByNaturalKey(ctx context.Context, flightNumber string, date time.Time) (*gormModels.Flight, error) {
	var f gormModels.Flight

	err := r.db.WithContext(ctx).
		Where("flight_number = ? AND date = ?", flightNumber, date).
		First(&f).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch flight: %w", err)
	}

	return &f, nil
}

// GetByID retrieves a flight by id, failing with ErrNotFound
func (r *FlightRepository) GetByID(ctx context.Context, id uint) (*gormModels.Flight, error) {
	var f gormModels.Flight

	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// Create inserts a new flight, failing with ErrDuplicate on a
// natural-key collision
func (r *FlightRepository) Create(ctx context.Context, f *gormModels.Flight) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save overwrites an existing flight in place
func (r *FlightRepository) Save(ctx context.Context, f *gormModels.Flight) error {
	if err := r.db.WithContext(ctx).Save(f).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the flight, its flight-info rows, and — when this was the
// last flight on the airframe — the airframe itself. Returned blob keys
// become garbage once the enclosing transaction commits.
func (r *FlightRepository) Delete(ctx context.Context, flight *gormModels.Flight) (orphanedBlobs []string, err error) {
	err = r.db.WithContext(ctx).
		Where("flight_id = ?", flight.ID).
		Delete(&gormModels.FlightInfo{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to delete flight infos: %w", err)
	}

	res := r.db.WithContext(ctx).Delete(&gormModels.Flight{}, flight.ID)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	if flight.AirframeID != nil {
		var siblings int64
		err = r.db.WithContext(ctx).
			Model(&gormModels.Flight{}).
			Where("airframe_id = ?", *flight.AirframeID).
			Count(&siblings).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count airframe references: %w", err)
		}

		if siblings == 0 {
			airframeRepo := NewAirframeRepository(r.db)
			blobs, err := airframeRepo.Delete(ctx, *flight.AirframeID)
			if err != nil {
				return nil, err
			}
			orphanedBlobs = append(orphanedBlobs, blobs...)
		}
	}

	return orphanedBlobs, nil
}
