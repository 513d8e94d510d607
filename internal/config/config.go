package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppEnv string
	Port   string

	// Postgres
	PgHost     string
	PgPort     string
	PgUser     string
	PgPassword string
	PgDB       string

	// Media storage
	MediaRoot string

	// Auth
	AuthSecret string

	// Cache
	CacheBackend  string
	CacheTTL      time.Duration
	RedisHost     string
	RedisPort     string
	RedisPassword string
}

// Load reads configuration from environment variables, applying defaults.
// A .env file is honored when present.
func Load() *Config {
	godotenv.Load()

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		PgHost:     getEnv("PG_HOST", "localhost"),
		PgPort:     getEnv("PG_PORT", "5432"),
		PgUser:     getEnv("PG_USER", "aviablog"),
		PgPassword: getEnv("PG_PASSWORD", ""),
		PgDB:       getEnv("PG_DB", "aviablog"),

		MediaRoot: getEnv("MEDIA_ROOT", "./media"),

		AuthSecret: getEnv("AUTH_SECRET", ""),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

// PostgresDSN builds the connection string shared by the sqlx and GORM pools.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PgUser, c.PgPassword, c.PgHost, c.PgPort, c.PgDB)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
