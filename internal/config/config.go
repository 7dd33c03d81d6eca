package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the service, loaded from environment
// variables with local-run defaults.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Optimizer OptimizerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig selects the history backend: Postgres when URL is set,
// otherwise a local SQLite file.
type DatabaseConfig struct {
	URL        string
	SqlitePath string
}

// RedisConfig holds the route-lock store configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// OptimizerConfig holds the tunables of the optimization core.
type OptimizerConfig struct {
	AvgSpeedKmh       float64
	Tolerance         time.Duration
	Turnaround        time.Duration
	FuelPricePerLiter float64
	DriverCostPerMin  float64
	LockTTL           time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         Get("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:        os.Getenv("DATABASE_URL"),
			SqlitePath: Get("DB_PATH", "data/app.db"),
		},
		Redis: RedisConfig{
			Addr:     Get("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Optimizer: OptimizerConfig{
			AvgSpeedKmh:       getFloatEnv("AVG_SPEED_KMH", 30),
			Tolerance:         getDurationEnv("WINDOW_TOLERANCE", 10*time.Minute),
			Turnaround:        getDurationEnv("MIN_TURNAROUND", 15*time.Minute),
			FuelPricePerLiter: getFloatEnv("FUEL_PRICE_PER_LITER", 1.6),
			DriverCostPerMin:  getFloatEnv("DRIVER_COST_PER_MIN", 0.5),
			LockTTL:           getDurationEnv("ROUTE_LOCK_TTL", 30*time.Second),
		},
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
