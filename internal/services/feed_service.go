package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"aviablog/internal/common"
	"aviablog/internal/constants"
	"aviablog/internal/db/repositories"
	"aviablog/internal/models/dtos"
	gormModels "aviablog/internal/models/gorm"
)

// DefaultFeedSize is how many cards the landing feed shows
const DefaultFeedSize = 6

// FeedService assembles the latest-trips cards for the landing page.
type FeedService struct {
	trips *repositories.TripRepository
	cache common.CacheInterface
	ttl   time.Duration
}

func NewFeedService(db *gorm.DB, cache common.CacheInterface, ttl time.Duration) *FeedService {
	return &FeedService{
		trips: repositories.NewTripRepository(db),
		cache: cache,
		ttl:   ttl,
	}
}

// LatestCards returns up to limit cards for the most recently created trips.
// A trip whose airframe chain or departure/arrival rows are missing is
// skipped rather than failing the whole feed.
func (s *FeedService) LatestCards(ctx context.Context, limit int) ([]dtos.FlightCard, error) {
	if limit <= 0 {
		limit = DefaultFeedSize
	}

	key := fmt.Sprintf("%s:%d", constants.CacheKeyLatestCards, limit)
	val, err := s.cache.GetOrSet(key, s.ttl, func() (any, error) {
		return s.loadCards(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	if cards, ok := val.([]dtos.FlightCard); ok {
		return cards, nil
	}
	// Cached value came back in a foreign shape (redis JSON roundtrip);
	// rebuild from the store and overwrite the entry so later hits are typed.
	cards, err := s.loadCards(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, cards, s.ttl)
	return cards, nil
}

// Invalidate drops the cached feed after a mutation
func (s *FeedService) Invalidate() {
	for _, limit := range []int{DefaultFeedSize} {
		s.cache.Delete(fmt.Sprintf("%s:%d", constants.CacheKeyLatestCards, limit))
	}
}

func (s *FeedService) loadCards(ctx context.Context, limit int) ([]dtos.FlightCard, error) {
	trips, err := s.trips.Latest(ctx, limit)
	if err != nil {
		return nil, err
	}

	cards := make([]dtos.FlightCard, 0, len(trips))
	for _, trip := range trips {
		card, ok := buildCard(trip)
		if !ok {
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// buildCard flattens one preloaded trip into a card. Reports false when the
// trip lacks the airframe chain or one of its legs.
func buildCard(trip gormModels.UserTrip) (dtos.FlightCard, bool) {
	airframe := trip.Flight.Airframe
	if airframe == nil || airframe.Airline == nil || airframe.AircraftType == nil {
		return dtos.FlightCard{}, false
	}

	departure, arrival, ok := splitLegs(trip.Flight.FlightInfos)
	if !ok {
		return dtos.FlightCard{}, false
	}

	photoURL := ""
	if airframe.Photo != "" {
		photoURL = constants.MediaURLPrefix + airframe.Photo
	}

	return dtos.FlightCard{
		PhotoURL:     photoURL,
		FlightNumber: trip.Flight.FlightNumber,
		Date:         trip.Flight.DateString(),
		Passenger:    trip.Passenger.Username,
		Airline:      airframe.Airline.Name,
		AircraftType: airframe.AircraftType.Label(),
		Departure:    departure.AirportCode,
		Destination:  arrival.AirportCode,
		TripSlug:     trip.Slug,
	}, true
}

// splitLegs picks the departure and arrival rows out of a flight's infos.
func splitLegs(infos []gormModels.FlightInfo) (departure, arrival gormModels.FlightInfo, ok bool) {
	var haveDep, haveArr bool
	for _, info := range infos {
		switch info.Status {
		case constants.StatusDeparture:
			departure, haveDep = info, true
		case constants.StatusArrival:
			arrival, haveArr = info, true
		}
	}
	return departure, arrival, haveDep && haveArr
}
