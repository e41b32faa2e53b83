package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Issuer is the fixed issuer claim stamped into every access token.
const Issuer = "resgen"

// Config carries every tunable the service reads at startup. It is built
// once in main and handed to constructors; nothing in the core reads the
// environment directly.
type Config struct {
	HTTPPort string
	Platform string

	PostgresDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxLife  time.Duration
	DBConnMaxIdle  time.Duration

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	OpenAIKey   string
	OpenAIModel string

	RateBurst      int
	RatePerSecond  int
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// Load reads configuration from the environment. Missing required values
// make startup fail rather than limping along half-configured.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnv("RESGEN_PORT", "8080"),
		Platform:        getEnv("RESGEN_PLATFORM", "prod"),
		PostgresDSN:     getEnv("RESGEN_PG_DSN", ""),
		DBMaxOpenConns:  getInt("RESGEN_DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getInt("RESGEN_DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLife:   getDuration("RESGEN_DB_CONN_MAX_LIFE", 30*time.Minute),
		DBConnMaxIdle:   getDuration("RESGEN_DB_CONN_MAX_IDLE", 5*time.Minute),
		JWTSecret:       getEnv("RESGEN_JWT_SECRET", ""),
		AccessTokenTTL:  getDuration("RESGEN_ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: getDuration("RESGEN_REFRESH_TOKEN_TTL", 60*24*time.Hour),
		OpenAIKey:       getEnv("RESGEN_OPENAI_KEY", ""),
		OpenAIModel:     getEnv("RESGEN_OPENAI_MODEL", "gpt-4o-mini"),
		RateBurst:       getInt("RESGEN_RATE_BURST", 20),
		RatePerSecond:   getInt("RESGEN_RATE_PER_SECOND", 10),
		MaxBodyBytes:    int64(getInt("RESGEN_MAX_BODY_BYTES", 1<<20)),
		RequestTimeout:  getDuration("RESGEN_REQUEST_TIMEOUT", 30*time.Second),
	}

	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("RESGEN_PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("RESGEN_JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
