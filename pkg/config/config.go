package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the base endpoints of the three PayMe services.
//
// Supported env vars:
//   - BASE_URL_BILLING (required)
//   - BASE_URL_ONBOARDING (required)
//   - BASE_URL_PAYMENT (required)
//   - PAYME_HTTP_TIMEOUT (optional; Go duration, default 15s)
type Config struct {
	BaseURLBilling    string
	BaseURLOnboarding string
	BaseURLPayment    string

	HTTPTimeout time.Duration
}

const defaultHTTPTimeout = 15 * time.Second

// FromEnv builds a Config from environment variables. A .env file in the
// working directory is loaded first when present. Every missing required
// variable makes the whole call fail; there is no usable fallback origin
// for a payment endpoint.
func FromEnv() (Config, error) {
	// Best effort; the env may already be populated by the runtime.
	_ = godotenv.Load()

	cfg := Config{
		HTTPTimeout: defaultHTTPTimeout,
	}

	var err error
	if cfg.BaseURLBilling, err = requiredEnv("BASE_URL_BILLING"); err != nil {
		return Config{}, err
	}
	if cfg.BaseURLOnboarding, err = requiredEnv("BASE_URL_ONBOARDING"); err != nil {
		return Config{}, err
	}
	if cfg.BaseURLPayment, err = requiredEnv("BASE_URL_PAYMENT"); err != nil {
		return Config{}, err
	}

	if raw := os.Getenv("PAYME_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PAYME_HTTP_TIMEOUT %q: %w", raw, err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// Validate reports the first missing endpoint; used by callers that build a
// Config by hand instead of going through FromEnv.
func (c Config) Validate() error {
	switch {
	case c.BaseURLBilling == "":
		return fmt.Errorf("missing billing base URL")
	case c.BaseURLOnboarding == "":
		return fmt.Errorf("missing onboarding base URL")
	case c.BaseURLPayment == "":
		return fmt.Errorf("missing payment base URL")
	}
	return nil
}

func requiredEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return v, nil
}
