package config

import (
	"fmt"
	"os"
	"time"
)

// StubConfig configures the in-memory dev planner API.
type StubConfig struct {
	Port     string
	Issuer   string
	Audience string
	TokenTTL time.Duration
	// IdempotencyTTL is how long Idempotency-Key responses are replayed.
	IdempotencyTTL time.Duration
}

func LoadStubConfigFromEnv() (StubConfig, error) {
	cfg := StubConfig{
		Port:     "8000",
		Issuer:   "tripplanner-devapi",
		Audience: "tripplanner",
		TokenTTL: 30 * time.Minute,

		IdempotencyTTL: 24 * time.Hour,
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("STUB_ISSUER"); v != "" {
		cfg.Issuer = v
	}
	if v := os.Getenv("STUB_AUDIENCE"); v != "" {
		cfg.Audience = v
	}
	if v := os.Getenv("STUB_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return StubConfig{}, fmt.Errorf("STUB_TTL must be a duration (e.g. 30m): %w", err)
		}
		if d <= 0 {
			return StubConfig{}, fmt.Errorf("STUB_TTL must be positive")
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("STUB_IDEMPOTENCY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return StubConfig{}, fmt.Errorf("STUB_IDEMPOTENCY_TTL must be a positive duration (e.g. 1h)")
		}
		cfg.IdempotencyTTL = d
	}
	return cfg, nil
}
