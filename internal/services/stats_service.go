package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"aviablog/internal/common"
	"aviablog/internal/constants"
	"aviablog/internal/models/dtos"
)

// DefaultLeaderboardSize is how many rows the frequent-flyer board shows
const DefaultLeaderboardSize = 10

// StatsService computes site-wide and per-passenger aggregates with raw SQL.
type StatsService struct {
	db    *sqlx.DB
	cache common.CacheInterface
	ttl   time.Duration
}

func NewStatsService(db *sqlx.DB, cache common.CacheInterface, ttl time.Duration) *StatsService {
	return &StatsService{db: db, cache: cache, ttl: ttl}
}

// TopPassengers returns the leaderboard of passengers by trip count,
// ties broken by username.
func (s *StatsService) TopPassengers(ctx context.Context, limit int) ([]dtos.TopPassenger, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	key := fmt.Sprintf("%s:%d", constants.CacheKeyTopUsers, limit)
	val, err := s.cache.GetOrSet(key, s.ttl, func() (any, error) {
		return s.loadTopPassengers(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	if rows, ok := val.([]dtos.TopPassenger); ok {
		return rows, nil
	}
	// Foreign cache shape (redis JSON roundtrip); reload and overwrite the
	// entry so later hits are typed.
	rows, err := s.loadTopPassengers(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, rows, s.ttl)
	return rows, nil
}

func (s *StatsService) loadTopPassengers(ctx context.Context, limit int) ([]dtos.TopPassenger, error) {
	rows := []dtos.TopPassenger{}
	query := s.db.Rebind(constants.TopPassengersQuery)
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query top passengers: %w", err)
	}
	return rows, nil
}

// SiteTotals returns titled distinct counts over everything ever logged.
func (s *StatsService) SiteTotals(ctx context.Context) ([]dtos.SiteTotal, error) {
	val, err := s.cache.GetOrSet(constants.CacheKeySiteTotals, s.ttl, func() (any, error) {
		return s.loadSiteTotals(ctx)
	})
	if err != nil {
		return nil, err
	}
	if totals, ok := val.([]dtos.SiteTotal); ok {
		return totals, nil
	}
	totals, err := s.loadSiteTotals(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(constants.CacheKeySiteTotals, totals, s.ttl)
	return totals, nil
}

func (s *StatsService) loadSiteTotals(ctx context.Context) ([]dtos.SiteTotal, error) {
	var row dtos.SiteTotalsRow
	query := s.db.Rebind(constants.SiteTotalsQuery)
	if err := s.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("failed to query site totals: %w", err)
	}

	return []dtos.SiteTotal{
		{Title: "Airlines", Value: row.UniqueAirlines},
		{Title: "Aircraft types", Value: row.UniqueAircraftTypes},
		{Title: "Airframes", Value: row.UniqueAirframes},
		{Title: "Airports", Value: row.UniqueAirports},
	}, nil
}

// AllPassengerStatistics returns the per-passenger distinct counts for every
// registered user, including those with no trips yet.
func (s *StatsService) AllPassengerStatistics(ctx context.Context) ([]dtos.PassengerStatistics, error) {
	val, err := s.cache.GetOrSet(constants.CacheKeyUserStats, s.ttl, func() (any, error) {
		return s.loadAllPassengerStatistics(ctx)
	})
	if err != nil {
		return nil, err
	}
	if rows, ok := val.([]dtos.PassengerStatistics); ok {
		return rows, nil
	}
	rows, err := s.loadAllPassengerStatistics(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(constants.CacheKeyUserStats, rows, s.ttl)
	return rows, nil
}

func (s *StatsService) loadAllPassengerStatistics(ctx context.Context) ([]dtos.PassengerStatistics, error) {
	rows := []dtos.PassengerStatistics{}
	query := s.db.Rebind(constants.PassengerStatisticsQuery)
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query passenger statistics: %w", err)
	}
	return rows, nil
}

// PassengerProfile returns one passenger's aggregate row, failing with
// ErrNotFound for an unknown username.
func (s *StatsService) PassengerProfile(ctx context.Context, username string) (*dtos.PassengerStatistics, error) {
	var row dtos.PassengerStatistics
	query := s.db.Rebind(constants.PassengerProfileQuery)
	err := s.db.GetContext(ctx, &row, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query passenger profile: %w", err)
	}
	return &row, nil
}

// Invalidate drops the cached aggregates after a mutation
func (s *StatsService) Invalidate() {
	s.cache.Delete(fmt.Sprintf("%s:%d", constants.CacheKeyTopUsers, DefaultLeaderboardSize))
	s.cache.Delete(constants.CacheKeySiteTotals)
	s.cache.Delete(constants.CacheKeyUserStats)
}
