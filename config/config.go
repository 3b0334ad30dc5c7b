package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DealerID string

	SearchURL        string
	AutotraderHome   string
	AutotraderDomain string
	CarsguideHome    string
	CarsguideDomain  string

	MaxRetries       int
	RetryBaseMs      int
	RequestTimeoutMs int

	// Randomized pacing windows, in milliseconds.
	PaceMinMs      int
	PaceMaxMs      int
	StepDelayMinMs int
	StepDelayMaxMs int
	BlockWaitMinMs int
	BlockWaitMaxMs int

	RawSaveDir string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MetricsPort string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DealerID: getEnv("DEALER_ID", "12751"),

		SearchURL:        getEnv("SEARCH_URL", "https://listings.platform.autotrader.com.au/api/v3/search"),
		AutotraderHome:   getEnv("AUTOTRADER_HOME", "https://www.autotrader.com.au/"),
		AutotraderDomain: getEnv("AUTOTRADER_DOMAIN", "https://www.autotrader.com.au/"),
		CarsguideHome:    getEnv("CARSGUIDE_HOME", "https://www.carsguide.com.au/"),
		CarsguideDomain:  getEnv("CARSGUIDE_DOMAIN", "https://www.carsguide.com.au/"),

		MaxRetries:       getEnvInt("MAX_RETRIES", 5),
		RetryBaseMs:      getEnvInt("RETRY_BASE_MS", 1000),
		RequestTimeoutMs: getEnvInt("REQUEST_TIMEOUT_MS", 30000),

		PaceMinMs:      getEnvInt("PACE_MIN_MS", 1000),
		PaceMaxMs:      getEnvInt("PACE_MAX_MS", 3000),
		StepDelayMinMs: getEnvInt("STEP_DELAY_MIN_MS", 1000),
		StepDelayMaxMs: getEnvInt("STEP_DELAY_MAX_MS", 2000),
		BlockWaitMinMs: getEnvInt("BLOCK_WAIT_MIN_MS", 5000),
		BlockWaitMaxMs: getEnvInt("BLOCK_WAIT_MAX_MS", 8000),

		RawSaveDir: getEnv("RAW_SAVE_DIR", "."),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "reconciler"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "reconciler123"),
		PostgresDB:       getEnv("POSTGRES_DB", "inventory_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MetricsPort: getEnv("METRICS_PORT", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
