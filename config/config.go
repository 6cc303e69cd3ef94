package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	RawCSVPath   string
	CleanCSVPath string

	FetchEnabled   bool
	SourcesFile    string
	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	PageTimeout    time.Duration
	ChromeBin      string

	LogLevel string

	ElectricityCostPerUnit float64
	WeightRange            float64
	WeightEfficiency       float64
	WeightAffordability    float64

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file (if any) and returns a populated Config.
// Malformed numeric values are reported rather than silently defaulted.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	r := &reader{}
	cfg := &Config{
		RawCSVPath:   getEnv("RAW_CSV_PATH", "./data/raw/ev_specs_raw.csv"),
		CleanCSVPath: getEnv("CLEAN_CSV_PATH", "./data/processed/ev_specs_clean.csv"),

		FetchEnabled:   r.bool("FETCH_ENABLED", true),
		SourcesFile:    getEnv("SOURCES_FILE", "./sources.yaml"),
		MaxConcurrency: r.int("MAX_CONCURRENCY", 3),
		RateLimitMs:    r.int("RATE_LIMIT_MS", 1000),
		MaxRetries:     r.int("MAX_RETRIES", 3),
		PageTimeout:    time.Duration(r.int("PAGE_TIMEOUT_SEC", 45)) * time.Second,
		ChromeBin:      getEnv("CHROME_BIN", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		ElectricityCostPerUnit: r.float("ELECTRICITY_COST_PER_UNIT", 8),
		WeightRange:            r.float("WEIGHT_RANGE", 0.4),
		WeightEfficiency:       r.float("WEIGHT_EFFICIENCY", 0.3),
		WeightAffordability:    r.float("WEIGHT_AFFORDABILITY", 0.3),

		PostgresEnabled:  r.bool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "evindex"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "evindex"),
		PostgresDB:       getEnv("POSTGRES_DB", "ev_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}

	if len(r.errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(r.errs, "; "))
	}
	if cfg.ElectricityCostPerUnit <= 0 {
		return nil, fmt.Errorf("config: ELECTRICITY_COST_PER_UNIT must be positive, got %v", cfg.ElectricityCostPerUnit)
	}
	return cfg, nil
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

// reader collects parse failures so Load can report all of them at once.
type reader struct {
	errs []string
}

func (r *reader) int(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s=%q is not an integer", key, val))
		return fallback
	}
	return n
}

func (r *reader) float(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s=%q is not a number", key, val))
		return fallback
	}
	return f
}

func (r *reader) bool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s=%q is not a boolean", key, val))
		return fallback
	}
	return b
}
