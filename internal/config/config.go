package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DBHost    string
	DBUser    string
	DBPass    string
	DBName    string
	DBPort    string
	DBSSLMode string

	RedisURL  string
	JWTSecret string

	// Metric evaluation fan-out and per-metric deadline.
	MetricConcurrency int
	MetricTimeout     time.Duration

	// Cron spec for the total_points repair sweep. Empty disables it.
	LedgerRepairSchedule string

	LeaderboardDefaultLimit int
	LeaderboardMaxLimit     int
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBUser:    getEnv("DB_USER", "postgres"),
		DBPass:    os.Getenv("DB_PASS"),
		DBName:    getEnv("DB_NAME", "trackforge"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		RedisURL:  os.Getenv("REDIS_URL"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		LedgerRepairSchedule: getEnv("LEDGER_REPAIR_SCHEDULE", "@every 1h"),
	}

	var err error
	cfg.MetricConcurrency, err = parseInt(getEnv("METRIC_CONCURRENCY", "4"))
	if err != nil || cfg.MetricConcurrency < 1 {
		return nil, fmt.Errorf("invalid METRIC_CONCURRENCY: %q", os.Getenv("METRIC_CONCURRENCY"))
	}
	cfg.MetricTimeout, err = time.ParseDuration(getEnv("METRIC_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid METRIC_TIMEOUT: %w", err)
	}
	cfg.LeaderboardDefaultLimit, err = parseInt(getEnv("LEADERBOARD_DEFAULT_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEADERBOARD_DEFAULT_LIMIT: %w", err)
	}
	cfg.LeaderboardMaxLimit, err = parseInt(getEnv("LEADERBOARD_MAX_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEADERBOARD_MAX_LIMIT: %w", err)
	}
	if cfg.LeaderboardDefaultLimit < 1 || cfg.LeaderboardMaxLimit < cfg.LeaderboardDefaultLimit {
		return nil, fmt.Errorf("leaderboard limits out of range: default=%d max=%d", cfg.LeaderboardDefaultLimit, cfg.LeaderboardMaxLimit)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
