package routes

import (
	"gorm.io/gorm"

	"github.com/go-chi/chi/v5"

	"aviablog/internal/api"
	"aviablog/internal/config"
	"aviablog/internal/db/repositories"
	"aviablog/internal/metrics"
	"aviablog/internal/middleware"
	"aviablog/internal/services"
)

// RegisterAPIRoutes registers all API v1 routes and handlers. Reads are
// public; everything that mutates sits behind the auth middleware.
func RegisterAPIRoutes(r chi.Router, cfg *config.Config, metricsReg *metrics.MetricsRegistry, gormDB *gorm.DB,
	feedSvc *services.FeedService, statsSvc *services.StatsService,
	detailSvc *services.TripDetailService, saveSvc *services.TripSaveService) {

	userRepo := repositories.NewUserRepository(gormDB)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))

		// Public reads
		v1.Get("/feed", api.HomeHandler(feedSvc, statsSvc))
		v1.Get("/passengers", api.PassengersHandler(statsSvc))
		v1.Get("/passengers/{username}", api.PassengerProfileHandler(statsSvc, detailSvc))
		v1.Get("/trips/{slug}", api.TripDetailHandler(detailSvc))

		// Authenticated writes
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(cfg.AuthSecret, userRepo))

			authed.Post("/trips", api.AddTripHandler(saveSvc, feedSvc, statsSvc, metricsReg))
			authed.Put("/trips/{slug}", api.UpdateTripHandler(saveSvc, detailSvc, feedSvc, statsSvc, metricsReg))
			authed.Delete("/trips/{slug}", api.DeleteTripHandler(saveSvc, feedSvc, statsSvc, metricsReg))
		})
	})
}
