// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// DatabaseURL selects the Postgres store; empty falls back to in-memory.
	DatabaseURL string

	// RedisURL enables submission rate limiting; empty disables it.
	RedisURL         string
	RateLimitPerMin  int
	RateLimitEnabled bool

	// GeminiAPIKey enables the AI collaborator; empty runs detector-only.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// AuditBrokers enables the Kafka audit publisher; empty logs events only.
	AuditBrokers []string
	AuditTopic   string
}

func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("PROFREVIEW_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RateLimitPerMin: envIntOr("RATE_LIMIT_PER_MIN", 10),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout:   envDurationOr("GEMINI_TIMEOUT", 20*time.Second),
		AuditTopic:      envOr("AUDIT_KAFKA_TOPIC", "profreview.audit"),
	}
	cfg.RateLimitEnabled = cfg.RedisURL != ""
	if brokers := os.Getenv("AUDIT_KAFKA_BROKERS"); brokers != "" {
		cfg.AuditBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
