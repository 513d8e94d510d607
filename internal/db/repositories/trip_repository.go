package repositories

import (
	"context"
	"fmt"

	gormModels "aviablog/internal/models/gorm"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// TripRepository handles user_trips table operations and owns the chained
// lifecycle delete for a trip's subgraph.
type TripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

// FindByNaturalKey retrieves a trip by (flight, passenger).
// Returns nil without error when no such trip exists.
func (r *TripRepository) FindByNaturalKey(ctx context.Context, flightID, passengerID uint) (*gormModels.UserTrip, error) {
	var t gormModels.UserTrip

	err := r.db.WithContext(ctx).
		Where("flight_id = ? AND passenger_id = ?", flightID, passengerID).
		First(&t).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}

	return &t, nil
}

// FindBySlug retrieves a trip by its slug with the full subgraph preloaded.
// Fails with ErrNotFound when no trip carries the slug.
func (r *TripRepository) FindBySlug(ctx context.Context, tripSlug string) (*gormModels.UserTrip, error) {
	var t gormModels.UserTrip

	err := r.db.WithContext(ctx).
		Preload("Passenger").
		Preload("Flight").
		Preload("Flight.Airframe").
		Preload("Flight.Airframe.AircraftType").
		Preload("Flight.Airframe.Airline").
		Preload("Flight.FlightInfos").
		Preload("Meals").
		Preload("TrackImages", func(db *gorm.DB) *gorm.DB { return db.Order("track_images.id ASC") }).
		Where("slug = ?", tripSlug).
		First(&t).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ListForPassenger retrieves a passenger's trips, newest flight date first,
// with airline and flight info eagerly joined.
func (r *TripRepository) ListForPassenger(ctx context.Context, username string) ([]gormModels.UserTrip, error) {
	var trips []gormModels.UserTrip

	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = user_trips.passenger_id").
		Joins("JOIN flights ON flights.id = user_trips.flight_id").
		Preload("Passenger").
		Preload("Flight").
		Preload("Flight.Airframe").
		Preload("Flight.Airframe.Airline").
		Preload("Flight.FlightInfos").
		Where("users.username = ?", username).
		Order("flights.date DESC").
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch passenger trips: %w", err)
	}
	return trips, nil
}

// Latest retrieves the most recently created trips with the card subgraph
// preloaded, newest id first.
func (r *TripRepository) Latest(ctx context.Context, limit int) ([]gormModels.UserTrip, error) {
	var trips []gormModels.UserTrip

	err := r.db.WithContext(ctx).
		Preload("Passenger").
		Preload("Flight").
		Preload("Flight.Airframe").
		Preload("Flight.Airframe.AircraftType").
		Preload("Flight.Airframe.Airline").
		Preload("Flight.FlightInfos").
		Order("id DESC").
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest trips: %w", err)
	}
	return trips, nil
}

// GetByID retrieves a trip by id, failing with ErrNotFound
func (r *TripRepository) GetByID(ctx context.Context, id uint) (*gormModels.UserTrip, error) {
	var t gormModels.UserTrip

	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// Create inserts a new trip, deriving the slug from flight number, date and
// passenger username when it is absent. The slug never changes afterwards.
func (r *TripRepository) Create(ctx context.Context, t *gormModels.UserTrip, flight *gormModels.Flight, passenger *gormModels.User) error {
	if t.Slug == "" {
		t.Slug = slug.Make(fmt.Sprintf("%s-%s-%s", flight.FlightNumber, flight.DateString(), passenger.Username))
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save overwrites an existing trip in place. The slug is kept as stored.
func (r *TripRepository) Save(ctx context.Context, t *gormModels.UserTrip) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the trip with its owned meals and track images, then —
// when this was the last trip on the flight — the flight itself, which in
// turn may take its airframe down. Returned blob keys become garbage once
// the enclosing transaction commits.
func (r *TripRepository) Delete(ctx context.Context, trip *gormModels.UserTrip) (orphanedBlobs []string, err error) {
	trackRepo := NewTrackImageRepository(r.db)
	mealRepo := NewMealRepository(r.db)

	images, err := trackRepo.ListForTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		blobs, err := trackRepo.Delete(ctx, img.ID)
		if err != nil {
			return nil, err
		}
		orphanedBlobs = append(orphanedBlobs, blobs...)
	}

	meal, err := mealRepo.FirstForTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if meal != nil {
		blobs, err := mealRepo.Delete(ctx, meal.ID)
		if err != nil {
			return nil, err
		}
		orphanedBlobs = append(orphanedBlobs, blobs...)
	}

	res := r.db.WithContext(ctx).Delete(&gormModels.UserTrip{}, trip.ID)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var siblings int64
	err = r.db.WithContext(ctx).
		Model(&gormModels.UserTrip{}).
		Where("flight_id = ?", trip.FlightID).
		Count(&siblings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count flight references: %w", err)
	}

	if siblings == 0 {
		flightRepo := NewFlightRepository(r.db)
		flight, err := flightRepo.GetByID(ctx, trip.FlightID)
		if err != nil {
			return nil, err
		}
		blobs, err := flightRepo.Delete(ctx, flight)
		if err != nil {
			return nil, err
		}
		orphanedBlobs = append(orphanedBlobs, blobs...)
	}

	return orphanedBlobs, nil
}
