package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aviablog/internal/common"
	"aviablog/internal/models/dtos"
	"aviablog/internal/services"
)

// PassengersHandler handles GET /api/v1/passengers: aggregate statistics
// for every registered passenger.
func PassengersHandler(statsSvc *services.StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		rows, err := statsSvc.AllPassengerStatistics(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to load passenger statistics")
			return
		}

		common.RespondSuccess(w, initTime, "Passenger statistics loaded", rows)
	}
}

type passengerProfilePayload struct {
	Profile *dtos.PassengerStatistics `json:"profile"`
	Trips   []dtos.TripSummary        `json:"trips"`
}

// PassengerProfileHandler handles GET /api/v1/passengers/{username}: the
// passenger's aggregate row plus their trip list, newest first.
func PassengerProfileHandler(statsSvc *services.StatsService, detailSvc *services.TripDetailService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		ctx := r.Context()

		username := chi.URLParam(r, "username")
		if username == "" {
			common.RespondError(w, initTime, nil, "Missing username", http.StatusBadRequest)
			return
		}

		profile, err := statsSvc.PassengerProfile(ctx, username)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				common.RespondError(w, initTime, nil, "Passenger not found", http.StatusNotFound)
				return
			}
			common.RespondError(w, initTime, err, "Failed to load passenger profile")
			return
		}

		trips, err := detailSvc.PassengerTrips(ctx, username)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to load passenger trips")
			return
		}

		common.RespondSuccess(w, initTime, "Passenger profile loaded", passengerProfilePayload{
			Profile: profile,
			Trips:   trips,
		})
	}
}
