package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"aviablog/internal/db/repositories"
	"aviablog/internal/models/dtos"
	gormModels "aviablog/internal/models/gorm"
)

// TripDetailService assembles the full edit/detail view of a trip and the
// per-passenger trip listing.
type TripDetailService struct {
	trips *repositories.TripRepository
	users *repositories.UserRepository
}

func NewTripDetailService(db *gorm.DB) *TripDetailService {
	return &TripDetailService{
		trips: repositories.NewTripRepository(db),
		users: repositories.NewUserRepository(db),
	}
}

// TripDetail loads one trip by slug and flattens it into display fields,
// blob references and the identifier bag a subsequent composite save would
// submit. Fails with ErrNotFound for an unknown slug and ErrIncompleteTrip
// when the meal, a leg, or the airframe chain is missing.
func (s *TripDetailService) TripDetail(ctx context.Context, tripSlug string) (*dtos.TripDetail, error) {
	trip, err := s.trips.FindBySlug(ctx, tripSlug)
	if err != nil {
		return nil, err
	}

	airframe := trip.Flight.Airframe
	if airframe == nil || airframe.Airline == nil || airframe.AircraftType == nil {
		return nil, ErrIncompleteTrip
	}
	if len(trip.Meals) == 0 {
		return nil, ErrIncompleteTrip
	}
	meal := trip.Meals[0]

	departure, arrival, ok := splitLegs(trip.Flight.FlightInfos)
	if !ok {
		return nil, ErrIncompleteTrip
	}

	files := map[string]string{}
	if airframe.Photo != "" {
		files["aircraft_photo"] = airframe.Photo
	}
	if meal.MealPhoto != nil && *meal.MealPhoto != "" {
		files["meal_photo"] = *meal.MealPhoto
	}

	trackIDs := make([]uint, 0, len(trip.TrackImages))
	for _, img := range trip.TrackImages {
		trackIDs = append(trackIDs, img.ID)
		if img.TrackImg != nil && *img.TrackImg != "" {
			files[fmt.Sprintf("track_image_%d", img.ID)] = *img.TrackImg
		}
	}

	detail := &dtos.TripDetail{
		TripSlug: trip.Slug,

		RegistrationNumber: airframe.RegistrationNumber,
		SerialNumber:       airframe.SerialNumber,
		AirlineName:        airframe.Airline.Name,

		FlightNumber: trip.Flight.FlightNumber,
		Date:         trip.Flight.DateString(),
		FlightTime:   trip.Flight.FlightTime,

		Manufacturer: airframe.AircraftType.Manufacturer,
		GenericType:  airframe.AircraftType.GenericType,
		AircraftType: airframe.AircraftType.Label(),

		Passenger:   trip.Passenger.Username,
		Seat:        trip.Seat,
		Neighbors:   trip.Neighbors,
		Comments:    trip.Comments,
		TicketPrice: trip.Price,

		Drinks:     meal.Drinks,
		Appetizer:  meal.Appetizer,
		MainCourse: meal.MainCourse,
		Dessert:    meal.Dessert,
		MealPrice:  meal.MealPrice,

		Route:     fmt.Sprintf("%s - %s", departure.AirportCode, arrival.AirportCode),
		Departure: legDetail(departure),
		Arrival:   legDetail(arrival),

		Files: files,

		IDs: dtos.TripSaveIDs{
			AircraftTypeID: airframe.AircraftTypeID,
			AirlineID:      airframe.AirlineID,
			AirframeID:     ptr(airframe.ID),
			FlightID:       ptr(trip.Flight.ID),
			TripID:         ptr(trip.ID),
			MealID:         ptr(meal.ID),
			DepartureID:    ptr(departure.ID),
			ArrivalID:      ptr(arrival.ID),
		},
		TrackImageIDs: trackIDs,
	}

	return detail, nil
}

// TripOwner returns the username owning the trip behind a slug.
// Fails with ErrNotFound for an unknown slug.
func (s *TripDetailService) TripOwner(ctx context.Context, tripSlug string) (string, error) {
	trip, err := s.trips.FindBySlug(ctx, tripSlug)
	if err != nil {
		return "", err
	}
	return trip.Passenger.Username, nil
}

// PassengerTrips lists a passenger's trips newest first. Fails with
// ErrNotFound for an unknown username; a trip with a broken subgraph is
// listed with the fields it still has.
func (s *TripDetailService) PassengerTrips(ctx context.Context, username string) ([]dtos.TripSummary, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	trips, err := s.trips.ListForPassenger(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	summaries := make([]dtos.TripSummary, 0, len(trips))
	for _, trip := range trips {
		summary := dtos.TripSummary{
			FlightNumber: trip.Flight.FlightNumber,
			Date:         trip.Flight.DateString(),
			FlightTime:   trip.Flight.FlightTime,
			TripSlug:     trip.Slug,
		}
		if trip.Flight.Airframe != nil && trip.Flight.Airframe.Airline != nil {
			summary.Airline = trip.Flight.Airframe.Airline.Name
		}
		if departure, arrival, ok := splitLegs(trip.Flight.FlightInfos); ok {
			summary.Departure = departure.AirportCode
			summary.Destination = arrival.AirportCode
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func legDetail(info gormModels.FlightInfo) dtos.FlightInfoDetail {
	return dtos.FlightInfoDetail{
		AirportCode:      info.AirportCode,
		Metar:            info.Metar,
		Gate:             info.Gate,
		IsBoardingBridge: info.IsBoardingBridge,
		ScheduleTime:     info.ScheduleTime,
		ActualTime:       info.ActualTime,
		Runway:           info.Runway,
	}
}

func ptr(id uint) *uint { return &id }
