package services

import (
	"context"
	"fmt"
	"strings"

	"aviablog/internal/blob"
	"aviablog/internal/constants"
	"aviablog/internal/db/repositories"
	"aviablog/internal/metrics"
	"aviablog/internal/models/dtos"
	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// slotOp is the tagged per-slot decision, computed from (id present?,
// field bag present?) before any store call.
type slotOp int

const (
	opNew    slotOp = iota // no id: reuse by natural key or create
	opUpdate               // id + fields: overwrite in place
	opDelete               // id + empty bag: delete the record
)

func decideSlot(id *uint, hasFields bool) slotOp {
	switch {
	case id == nil:
		return opNew
	case hasFields:
		return opUpdate
	default:
		return opDelete
	}
}

// TripSaveService orchestrates the composite add/edit flight operation:
// eight entity slots resolved in dependency order plus the track-image
// intents, all inside one transaction.
type TripSaveService struct {
	db         *gorm.DB
	blobs      blob.Store
	metrics    *metrics.MetricsRegistry
	reconciler *TrackImageReconciler
}

// NewTripSaveService creates a new composite save service. metricsReg may
// be nil.
func NewTripSaveService(db *gorm.DB, blobs blob.Store, metricsReg *metrics.MetricsRegistry) *TripSaveService {
	return &TripSaveService{
		db:         db,
		blobs:      blobs,
		metrics:    metricsReg,
		reconciler: NewTrackImageReconciler(),
	}
}

// Save runs the composite save for the given passenger. The add path passes
// a zero TripSaveIDs; the edit path passes the id bag from the trip detail
// view. Returns the persisted trip, nil when the trip slot was deleted.
func (s *TripSaveService) Save(ctx context.Context, in *dtos.TripSaveInput, ids dtos.TripSaveIDs, username string) (*gormModels.UserTrip, error) {
	if verr := validateTripSave(in, ids); verr != nil {
		return nil, verr
	}

	user, err := repositories.NewUserRepository(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("unknown passenger %q: %w", username, err)
	}

	janitor := newBlobJanitor(s.blobs, s.metrics)
	var savedTrip *gormModels.UserTrip

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.resolveSlots(ctx, tx, in, ids, user, janitor)
		if err != nil {
			return err
		}
		savedTrip = trip
		return nil
	})
	if err != nil {
		janitor.compensate(ctx)
		return nil, err
	}

	janitor.commit(ctx)
	return savedTrip, nil
}

// resolveSlots walks the slots in their fixed dependency order, threading
// each resolved reference into the bags downstream of it.
func (s *TripSaveService) resolveSlots(ctx context.Context, tx *gorm.DB, in *dtos.TripSaveInput, ids dtos.TripSaveIDs, user *gormModels.User, janitor *blobJanitor) (*gormModels.UserTrip, error) {
	aircraftType, err := s.resolveAircraftType(ctx, tx, in.AircraftType, ids.AircraftTypeID)
	if err != nil {
		return nil, err
	}

	airline, err := s.resolveAirline(ctx, tx, in.Airline, ids.AirlineID)
	if err != nil {
		return nil, err
	}

	airframe, err := s.resolveAirframe(ctx, tx, in.Airframe, ids.AirframeID, aircraftType, airline, janitor)
	if err != nil {
		return nil, err
	}

	flight, err := s.resolveFlight(ctx, tx, in.Flight, ids.FlightID, airframe, janitor)
	if err != nil {
		return nil, err
	}

	trip, err := s.resolveTrip(ctx, tx, in.Trip, ids.TripID, flight, user, janitor)
	if err != nil {
		return nil, err
	}

	if err := s.resolveMeal(ctx, tx, in.Meal, ids.MealID, trip, flight, janitor); err != nil {
		return nil, err
	}

	if err := s.resolveFlightInfo(ctx, tx, in.Departure, ids.DepartureID, constants.StatusDeparture, flight); err != nil {
		return nil, err
	}
	if err := s.resolveFlightInfo(ctx, tx, in.Arrival, ids.ArrivalID, constants.StatusArrival, flight); err != nil {
		return nil, err
	}

	if len(in.TrackImages) > 0 {
		if trip == nil || flight == nil {
			return nil, fmt.Errorf("track images require a trip")
		}
		if err := s.reconciler.Reconcile(ctx, tx, trip, flight, user.Username, in.TrackImages, janitor); err != nil {
			return nil, err
		}
	}

	return trip, nil
}

func (s *TripSaveService) resolveAircraftType(ctx context.Context, tx *gorm.DB, fields *dtos.AircraftTypeFields, id *uint) (*gormModels.AircraftType, error) {
	repo := repositories.NewAircraftTypeRepository(tx)

	switch decideSlot(id, fields != nil) {
	case opNew:
		existing, err := repo.FindByNaturalKey(ctx, fields.Manufacturer, fields.GenericType)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		t := &gormModels.AircraftType{Manufacturer: fields.Manufacturer, GenericType: fields.GenericType}
		if err := repo.Create(ctx, t); err != nil {
			return nil, err
		}
		return t, nil

	case opUpdate:
		t, err := repo.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		t.Manufacturer = fields.Manufacturer
		t.GenericType = fields.GenericType
		if err := repo.Save(ctx, t); err != nil {
			return nil, err
		}
		return t, nil

	default:
		return nil, repo.Delete(ctx, *id)
	}
}

func (s *TripSaveService) resolveAirline(ctx context.Context, tx *gorm.DB, fields *dtos.AirlineFields, id *uint) (*gormModels.Airline, error) {
	repo := repositories.NewAirlineRepository(tx)

	switch decideSlot(id, fields != nil) {
	case opNew:
		existing, err := repo.FindByName(ctx, fields.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		a := &gormModels.Airline{Name: fields.Name}
		if err := repo.Create(ctx, a); err != nil {
			return nil, err
		}
		return a, nil

	case opUpdate:
		a, err := repo.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		a.Name = fields.Name
		if err := repo.Save(ctx, a); err != nil {
			return nil, err
		}
		return a, nil

	default:
		return nil, repo.Delete(ctx, *id)
	}
}

func (s *TripSaveService) resolveAirframe(ctx context.Context, tx *gorm.DB, fields *dtos.AirframeFields, id *uint, aircraftType *gormModels.AircraftType, airline *gormModels.Airline, janitor *blobJanitor) (*gormModels.Airframe, error) {
	repo := repositories.NewAirframeRepository(tx)

	var typeID, airlineID *uint
	if aircraftType != nil {
		typeID = &aircraftType.ID
	}
	if airline != nil {
		airlineID = &airline.ID
	}

	putPhoto := func(a *gormModels.Airframe, upload *dtos.Upload) error {
		if airline == nil {
			return fmt.Errorf("airframe photo requires an airline")
		}
		key := a.PhotoKey(airline.Name, upload.Filename)
		if a.Photo != "" && a.Photo != key {
			janitor.discard(a.Photo)
		}
		if err := janitor.put(ctx, key, upload.Data); err != nil {
			return fmt.Errorf("failed to store airframe photo: %w", err)
		}
		a.Photo = key
		return nil
	}

	switch decideSlot(id, fields != nil) {
	case opNew:
		existing, err := repo.FindByNaturalKey(ctx, fields.SerialNumber, fields.RegistrationNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		a := &gormModels.Airframe{
			SerialNumber:       fields.SerialNumber,
			RegistrationNumber: fields.RegistrationNumber,
			AircraftTypeID:     typeID,
			AirlineID:          airlineID,
		}
		if fields.Photo != nil {
			if err := putPhoto(a, fields.Photo); err != nil {
				return nil, err
			}
		}
		if err := repo.Create(ctx, a); err != nil {
			return nil, err
		}
		return a, nil

	case opUpdate:
		a, err := repo.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		a.SerialNumber = fields.SerialNumber
		a.RegistrationNumber = fields.RegistrationNumber
		a.AircraftTypeID = typeID
		a.AirlineID = airlineID
		if fields.Photo != nil {
			if err := putPhoto(a, fields.Photo); err != nil {
				return nil, err
			}
		}
		if err := repo.Save(ctx, a); err != nil {
			return nil, err
		}
		return a, nil

	default:
		orphaned, err := repo.Delete(ctx, *id)
		if err != nil {
			return nil, err
		}
		janitor.discard(orphaned...)
		return nil, nil
	}
}

func (s *TripSaveService) resolveFlight(ctx context.Context, tx *gorm.DB, fields *dtos.FlightFields, id *uint, airframe *gormModels.Airframe, janitor *blobJanitor) (*gormModels.Flight, error) {
	repo := repositories.NewFlightRepository(tx)

	var airframeID *uint
	if airframe != nil {
		airframeID = &airframe.ID
	}

	switch decideSlot(id, fields != nil) {
	case opNew:
		existing, err := repo.FindByNaturalKey(ctx, fields.FlightNumber, fields.Date)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		f := &gormModels.Flight{
			FlightNumber: fields.FlightNumber,
			Date:         fields.Date,
			FlightTime:   fields.FlightTime,
			AirframeID:   airframeID,
		}
		if err := repo.Create(ctx, f); err != nil {
			return nil, err
		}
		return f, nil

	case opUpdate:
		f, err := repo.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		f.FlightNumber = fields.FlightNumber
		f.Date = fields.Date
		f.FlightTime = fields.FlightTime
		f.AirframeID = airframeID
		if err := repo.Save(ctx, f); err != nil {
			return nil, err
		}
		return f, nil

	default:
		f, err := repo.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		orphaned, err := repo.Delete(ctx, f)
		if err != nil {
			return nil, err
		}
		janitor.discard(orphaned...)
		return nil, nil
	}
}

func (s *TripSaveService) resolveTrip(ctx context.Context, tx *gorm.DB, fields *dtos.TripFields, id *uint, flight *gormModels.Flight, user *gormModels.User, janitor *blobJanitor) (*gormModels.UserTrip, error) {
	repo := repositories.NewTripRepository(tx)

	switch decideSlot(id, fields != nil) {
	case opNew:
		if flight == nil {
			return nil, fmt.Errorf("trip requires a flight")
		}
		existing, err := repo.FindByNaturalKey(ctx, flight.ID, user.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		t := &gormModels.UserTrip{
			FlightID:    flight.ID,
			PassengerID: user.ID,
			Seat:        fields.Seat,
			Neighbors:   fields.Neighbors,
			Comments:    fields.Comments,
			Price:       fields.Price,
		}
		if err := repo.Create(ctx, t, flight, user); err != nil {
			return nil, err
		}
		return t, nil

	case opUpdate:
		if flight == nil {
			return nil, fmt.Errorf("trip requires a flight")
		}
		t, err := repo.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if t.PassengerID != user.ID {
			return nil, ErrNotFound
		}
		t.FlightID = flight.ID
		t.Seat = fields.Seat
		t.Neighbors = fields.Neighbors
		t.Comments = fields.Comments
		t.Price = fields.Price
		if err := repo.Save(ctx, t); err != nil {
			return nil, err
		}
		return t, nil

	default:
		t, err := repo.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if t.PassengerID != user.ID {
			return nil, ErrNotFound
		}
		orphaned, err := repo.Delete(ctx, t)
		if err != nil {
			return nil, err
		}
		janitor.discard(orphaned...)
		return nil, nil
	}
}

func (s *TripSaveService) resolveMeal(ctx context.Context, tx *gorm.DB, fields *dtos.MealFields, id *uint, trip *gormModels.UserTrip, flight *gormModels.Flight, janitor *blobJanitor) error {
	repo := repositories.NewMealRepository(tx)

	putPhoto := func(m *gormModels.Meal, upload *dtos.Upload) error {
		key := m.PhotoKey(flight.FlightNumber, flight.DateString(), upload.Filename)
		if m.MealPhoto != nil && *m.MealPhoto != "" && *m.MealPhoto != key {
			janitor.discard(*m.MealPhoto)
		}
		if err := janitor.put(ctx, key, upload.Data); err != nil {
			return fmt.Errorf("failed to store meal photo: %w", err)
		}
		m.MealPhoto = &key
		return nil
	}

	switch decideSlot(id, fields != nil) {
	case opNew:
		if trip == nil || flight == nil {
			return fmt.Errorf("meal requires a trip")
		}
		drinks := fields.Drinks
		if drinks == "" {
			drinks = constants.DefaultDrinks
		}
		m := &gormModels.Meal{
			TripID:     trip.ID,
			Drinks:     drinks,
			Appetizer:  fields.Appetizer,
			MainCourse: fields.MainCourse,
			Dessert:    fields.Dessert,
			MealPrice:  fields.MealPrice,
		}
		existing, err := repo.FindByValueTuple(ctx, m)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		if fields.Photo != nil {
			if err := putPhoto(m, fields.Photo); err != nil {
				return err
			}
		}
		return repo.Create(ctx, m)

	case opUpdate:
		if trip == nil || flight == nil {
			return fmt.Errorf("meal requires a trip")
		}
		m, err := repo.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		// a submitted meal id must belong to the trip being edited
		if m.TripID != trip.ID {
			return ErrNotFound
		}
		m.Drinks = fields.Drinks
		if m.Drinks == "" {
			m.Drinks = constants.DefaultDrinks
		}
		m.Appetizer = fields.Appetizer
		m.MainCourse = fields.MainCourse
		m.Dessert = fields.Dessert
		m.MealPrice = fields.MealPrice
		if fields.Photo != nil {
			if err := putPhoto(m, fields.Photo); err != nil {
				return err
			}
		}
		return repo.Save(ctx, m)

	default:
		m, err := repo.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if trip != nil && m.TripID != trip.ID {
			return ErrNotFound
		}
		orphaned, err := repo.Delete(ctx, *id)
		if err != nil {
			return err
		}
		janitor.discard(orphaned...)
		return nil
	}
}

func (s *TripSaveService) resolveFlightInfo(ctx context.Context, tx *gorm.DB, fields *dtos.FlightInfoFields, id *uint, status constants.FlightStatus, flight *gormModels.Flight) error {
	repo := repositories.NewFlightInfoRepository(tx)

	switch decideSlot(id, fields != nil) {
	case opNew:
		if flight == nil {
			return fmt.Errorf("%s info requires a flight", strings.ToLower(string(status)))
		}
		existing, err := repo.FindByNaturalKey(ctx, flight.ID, fields.AirportCode)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		fi := &gormModels.FlightInfo{
			FlightID:         flight.ID,
			Status:           status,
			AirportCode:      fields.AirportCode,
			Metar:            fields.Metar,
			Gate:             fields.Gate,
			IsBoardingBridge: fields.IsBoardingBridge,
			ScheduleTime:     fields.ScheduleTime,
			ActualTime:       fields.ActualTime,
			Runway:           fields.Runway,
		}
		return repo.Create(ctx, fi)

	case opUpdate:
		if flight == nil {
			return fmt.Errorf("%s info requires a flight", strings.ToLower(string(status)))
		}
		fi, err := repo.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		fi.FlightID = flight.ID
		fi.Status = status
		fi.AirportCode = fields.AirportCode
		fi.Metar = fields.Metar
		fi.Gate = fields.Gate
		fi.IsBoardingBridge = fields.IsBoardingBridge
		fi.ScheduleTime = fields.ScheduleTime
		fi.ActualTime = fields.ActualTime
		fi.Runway = fields.Runway
		return repo.Save(ctx, fi)

	default:
		return repo.Delete(ctx, *id)
	}
}

// validateTripSave surfaces field-level problems before the transaction
// opens. Slots without an id must carry their field bag, and bags that are
// present must carry their required fields.
func validateTripSave(in *dtos.TripSaveInput, ids dtos.TripSaveIDs) *ValidationError {
	verr := &ValidationError{}

	required := []struct {
		name   string
		id     *uint
		fields bool
	}{
		{"aircraft_type", ids.AircraftTypeID, in.AircraftType != nil},
		{"airline", ids.AirlineID, in.Airline != nil},
		{"airframe", ids.AirframeID, in.Airframe != nil},
		{"flight", ids.FlightID, in.Flight != nil},
		{"trip", ids.TripID, in.Trip != nil},
		{"meal", ids.MealID, in.Meal != nil},
		{"departure", ids.DepartureID, in.Departure != nil},
		{"arrival", ids.ArrivalID, in.Arrival != nil},
	}
	for _, slot := range required {
		if slot.id == nil && !slot.fields {
			verr.Add(slot.name, "this slot is required")
		}
	}

	if in.AircraftType != nil {
		if strings.TrimSpace(in.AircraftType.Manufacturer) == "" {
			verr.Add("manufacturer", "this field is required")
		}
		if strings.TrimSpace(in.AircraftType.GenericType) == "" {
			verr.Add("generic_type", "this field is required")
		}
	}
	if in.Airline != nil && strings.TrimSpace(in.Airline.Name) == "" {
		verr.Add("airline_name", "this field is required")
	}
	if in.Airframe != nil {
		if strings.TrimSpace(in.Airframe.SerialNumber) == "" {
			verr.Add("serial_number", "this field is required")
		}
		if strings.TrimSpace(in.Airframe.RegistrationNumber) == "" {
			verr.Add("registration_number", "this field is required")
		}
	}
	if in.Flight != nil {
		if strings.TrimSpace(in.Flight.FlightNumber) == "" {
			verr.Add("flight_number", "this field is required")
		}
		if in.Flight.Date.IsZero() {
			verr.Add("date", "this field is required")
		}
	}
	if in.Departure != nil {
		if strings.TrimSpace(in.Departure.AirportCode) == "" {
			verr.Add("departure_airport_code", "this field is required")
		}
		if strings.TrimSpace(in.Departure.Runway) == "" {
			verr.Add("departure_runway", "this field is required")
		}
	}
	if in.Arrival != nil {
		if strings.TrimSpace(in.Arrival.AirportCode) == "" {
			verr.Add("arrival_airport_code", "this field is required")
		}
		if strings.TrimSpace(in.Arrival.Runway) == "" {
			verr.Add("arrival_runway", "this field is required")
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// DeleteTrip removes a trip and its owned subgraph outside the composite
// flow (the standalone delete endpoint). Only the owning passenger may
// delete. Runs the same chained lifecycle rules inside one transaction;
// blob removal happens after commit.
func (s *TripSaveService) DeleteTrip(ctx context.Context, tripSlug, username string) error {
	janitor := newBlobJanitor(s.blobs, s.metrics)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewTripRepository(tx)
		trip, err := repo.FindBySlug(ctx, tripSlug)
		if err != nil {
			return err
		}
		if trip.Passenger.Username != username {
			return ErrForbidden
		}
		orphaned, err := repo.Delete(ctx, trip)
		if err != nil {
			return err
		}
		janitor.discard(orphaned...)
		return nil
	})
	if err != nil {
		return err
	}

	janitor.commit(ctx)
	return nil
}
