package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// ISO 4217 code used to price the catalog.
	Currency string
}

func Load() (Config, error) {
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return Config{
		AppEnv:      getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		DatabaseURL: db,
		JWTSecret:   secret,
		JWTTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
		Currency:    getEnv("CURRENCY", "USD"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
