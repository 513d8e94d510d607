package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aviablog/internal/auth"
	"aviablog/internal/common"
	"aviablog/internal/metrics"
	"aviablog/internal/services"
)

// TripDetailHandler handles GET /api/v1/trips/{slug}: the full detail view
// including the identifier bag the edit form needs.
func TripDetailHandler(detailSvc *services.TripDetailService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		tripSlug := chi.URLParam(r, "slug")
		detail, err := detailSvc.TripDetail(r.Context(), tripSlug)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				common.RespondError(w, initTime, nil, "Trip not found", http.StatusNotFound)
			case errors.Is(err, services.ErrIncompleteTrip):
				common.RespondError(w, initTime, err, "Trip data is incomplete", http.StatusUnprocessableEntity)
			default:
				common.RespondError(w, initTime, err, "Failed to load trip")
			}
			return
		}

		common.RespondSuccess(w, initTime, "Trip loaded", detail)
	}
}

// AddTripHandler handles POST /api/v1/trips: the composite save on its add
// path, creating or reusing every slot from the submitted form.
func AddTripHandler(saveSvc *services.TripSaveService, feedSvc *services.FeedService, statsSvc *services.StatsService, metricsReg *metrics.MetricsRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, ok := auth.GetCurrentUser(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}

		in, ids, err := parseTripForm(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid form", http.StatusBadRequest)
			return
		}

		trip, err := saveSvc.Save(r.Context(), in, ids, user.Username)
		if err != nil {
			respondSaveError(w, initTime, err)
			return
		}

		feedSvc.Invalidate()
		statsSvc.Invalidate()
		metricsReg.TripsSavedTotal.Inc()

		payload := map[string]string{}
		if trip != nil {
			payload["usertripslug"] = trip.Slug
		}
		common.RespondSuccess(w, initTime, "Flight saved", payload, http.StatusCreated)
	}
}

// UpdateTripHandler handles PUT /api/v1/trips/{slug}: the composite save on
// its edit path. Only the owning passenger can touch the trip.
func UpdateTripHandler(saveSvc *services.TripSaveService, detailSvc *services.TripDetailService, feedSvc *services.FeedService, statsSvc *services.StatsService, metricsReg *metrics.MetricsRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, ok := auth.GetCurrentUser(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tripSlug := chi.URLParam(r, "slug")
		owner, err := detailSvc.TripOwner(r.Context(), tripSlug)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				common.RespondError(w, initTime, nil, "Trip not found", http.StatusNotFound)
				return
			}
			common.RespondError(w, initTime, err, "Failed to load trip")
			return
		}
		if owner != user.Username {
			common.RespondError(w, initTime, nil, "Not the trip owner", http.StatusForbidden)
			return
		}

		in, ids, err := parseTripForm(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid form", http.StatusBadRequest)
			return
		}

		trip, err := saveSvc.Save(r.Context(), in, ids, user.Username)
		if err != nil {
			respondSaveError(w, initTime, err)
			return
		}

		feedSvc.Invalidate()
		statsSvc.Invalidate()
		metricsReg.TripsSavedTotal.Inc()

		payload := map[string]string{}
		if trip != nil {
			payload["usertripslug"] = trip.Slug
		}
		common.RespondSuccess(w, initTime, "Flight updated", payload)
	}
}

// DeleteTripHandler handles DELETE /api/v1/trips/{slug}: the standalone
// delete running the chained lifecycle rules.
func DeleteTripHandler(saveSvc *services.TripSaveService, feedSvc *services.FeedService, statsSvc *services.StatsService, metricsReg *metrics.MetricsRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, ok := auth.GetCurrentUser(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tripSlug := chi.URLParam(r, "slug")
		if err := saveSvc.DeleteTrip(r.Context(), tripSlug, user.Username); err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				common.RespondError(w, initTime, nil, "Trip not found", http.StatusNotFound)
			case errors.Is(err, services.ErrForbidden):
				common.RespondError(w, initTime, nil, "Not the trip owner", http.StatusForbidden)
			default:
				common.RespondError(w, initTime, err, "Failed to delete trip")
			}
			return
		}

		feedSvc.Invalidate()
		statsSvc.Invalidate()
		metricsReg.TripsDeletedTotal.Inc()

		common.RespondSuccess(w, initTime, "Flight deleted", nil)
	}
}

// respondSaveError maps composite-save failures onto status codes.
func respondSaveError(w http.ResponseWriter, initTime time.Time, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		common.RespondValidationError(w, initTime, verr.Fields)
	case errors.Is(err, services.ErrDuplicate):
		common.RespondError(w, initTime, err, "Conflicting record already exists", http.StatusConflict)
	case errors.Is(err, services.ErrNotFound):
		common.RespondError(w, initTime, err, "Referenced record not found", http.StatusNotFound)
	default:
		common.RespondError(w, initTime, err, "Failed to save flight")
	}
}
