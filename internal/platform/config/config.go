// Package config builds runtime configuration from the environment so main
// stays lean. Absent variables fall back to development defaults; production
// deployments override them.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures every runtime knob for the service.
type Config struct {
	Addr string

	// DatabaseURL selects the PostgreSQL stores when set; the service runs
	// on in-memory stores otherwise (dev and unit-test mode).
	DatabaseURL string

	Redis RedisConfig

	JWT JWTConfig

	// KafkaBrokers enables the Kafka audit publisher when non-empty.
	KafkaBrokers    []string
	AuditTopic      string
	AuditBufferSize int

	// ReleaseAlertWindowDays controls when an inmate's expected release
	// counts as "approaching" on dashboards and alerts.
	ReleaseAlertWindowDays int
}

// RedisConfig captures connection settings for the token revocation list.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// JWTConfig captures token signing settings.
type JWTConfig struct {
	SigningKey     string
	Issuer         string
	Audience       string
	AccessTokenTTL time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:                   getenv("GAVEL_ADDR", ":8080"),
		DatabaseURL:            os.Getenv("GAVEL_DATABASE_URL"),
		AuditTopic:             getenv("GAVEL_AUDIT_TOPIC", "gavel.audit.events"),
		AuditBufferSize:        getenvInt("GAVEL_AUDIT_BUFFER", 256),
		ReleaseAlertWindowDays: getenvInt("GAVEL_RELEASE_ALERT_DAYS", 7),
		Redis: RedisConfig{
			URL:          os.Getenv("GAVEL_REDIS_URL"),
			PoolSize:     getenvInt("GAVEL_REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("GAVEL_REDIS_MIN_IDLE", 2),
			DialTimeout:  getenvDuration("GAVEL_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("GAVEL_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("GAVEL_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		JWT: JWTConfig{
			// Development default; must be overridden in production.
			SigningKey:     getenv("GAVEL_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:         getenv("GAVEL_JWT_ISSUER", "gavel"),
			Audience:       getenv("GAVEL_JWT_AUDIENCE", "gavel-api"),
			AccessTokenTTL: getenvDuration("GAVEL_JWT_TTL", 8*time.Hour),
		},
	}

	if brokers := os.Getenv("GAVEL_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
