package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aviablog/internal/blob"
	"aviablog/internal/common"
	"aviablog/internal/config"
	"aviablog/internal/db"
	"aviablog/internal/logging"
	"aviablog/internal/metrics"
	"aviablog/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Aviablog starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with sqlx
	if err := db.InitPostgres(cfg.PostgresDSN()); err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	gormDB, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (GORM): %v", err)
	}
	logging.Info("Connected to Postgres (GORM)")

	if err := db.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logging.Info("Database schema migrated")

	blobs, err := blob.NewFilesystem(cfg.MediaRoot)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}
	logging.Info("Media store ready", "root", blobs.Root())

	metricsReg := metrics.NewMetricsRegistry()

	var cache common.CacheInterface
	if cfg.CacheBackend == "redis" {
		redisCache, err := common.NewRedisCacheService(cfg, metricsReg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cache = redisCache
		logging.Info("Using Redis cache", "host", cfg.RedisHost)
	} else {
		cache = common.NewCacheService(int(cfg.CacheTTL.Seconds()), 120, metricsReg)
		logging.Info("Using in-memory cache")
	}
	defer cache.Close()

	upSince := time.Now()
	router := routes.RegisterRoutes(cfg, gormDB, db.DB, blobs, cache, metricsReg, upSince)

	// Metrics endpoint sits outside the Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	logging.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.AppEnv,
	)

	log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}
