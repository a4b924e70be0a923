// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment. A .env file
// is loaded by main before this runs, so local development needs no exports.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string

	// Settlement behavior. Test mode makes outcomes deterministic and the
	// delay short, for local development and automated tests.
	TestMode           bool
	TestDelay          time.Duration
	TestPaymentSuccess bool
	MinDelay           time.Duration
	MaxDelay           time.Duration
	UPISuccessRate     float64
	CardSuccessRate    float64

	// Sweeper cadence for payments stuck in "processing".
	SweepInterval time.Duration
	StuckMaxAge   time.Duration
}

// Load reads configuration from the environment, applying defaults for
// everything except DATABASE_URL.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseURL: dbURL,
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		TestMode:           getEnvBool("TEST_MODE", false),
		TestDelay:          getEnvMillis("TEST_PROCESSING_DELAY", 1000),
		TestPaymentSuccess: getEnvBool("TEST_PAYMENT_SUCCESS", true),
		MinDelay:           getEnvMillis("PROCESSING_DELAY_MIN", 5000),
		MaxDelay:           getEnvMillis("PROCESSING_DELAY_MAX", 10000),
		UPISuccessRate:     getEnvFloat("UPI_SUCCESS_RATE", 0.90),
		CardSuccessRate:    getEnvFloat("CARD_SUCCESS_RATE", 0.95),

		SweepInterval: getEnvMillis("SWEEP_INTERVAL", 30000),
		StuckMaxAge:   getEnvMillis("STUCK_PAYMENT_MAX_AGE", 60000),
	}

	if cfg.MinDelay > cfg.MaxDelay {
		return nil, fmt.Errorf("PROCESSING_DELAY_MIN exceeds PROCESSING_DELAY_MAX")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvMillis(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Millisecond
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return time.Duration(fallback) * time.Millisecond
	}
	return time.Duration(n) * time.Millisecond
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return fallback
	}
	return f
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
