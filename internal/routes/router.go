package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"aviablog/internal/blob"
	"aviablog/internal/common"
	"aviablog/internal/config"
	"aviablog/internal/logging"
	"aviablog/internal/metrics"
	"aviablog/internal/middleware"
	"aviablog/internal/services"

	"aviablog/internal/api"
)

// RegisterRoutes wires the full HTTP surface: middleware, the JSON API,
// media file serving and the health check.
func RegisterRoutes(cfg *config.Config, gormDB *gorm.DB, sqlxDB *sqlx.DB, blobs *blob.Filesystem, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with request id, rate limit and CORS middleware")

	feedSvc := services.NewFeedService(gormDB, cache, cfg.CacheTTL)
	statsSvc := services.NewStatsService(sqlxDB, cache, cfg.CacheTTL)
	detailSvc := services.NewTripDetailService(gormDB)
	saveSvc := services.NewTripSaveService(gormDB, blobs, metricsReg)

	r.Get("/healthCheck", api.HealthCheckHandler(sqlxDB, upSince))

	// stored media is public, served straight off the blob root
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.FS(blobs.FS()))))

	RegisterAPIRoutes(r, cfg, metricsReg, gormDB, feedSvc, statsSvc, detailSvc, saveSvc)

	return r
}
