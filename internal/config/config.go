package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CookieName  string
	// CookieSecure marks the session cookie Secure; disable only for local
	// plain-HTTP development.
	CookieSecure bool
	CORSOrigins  []string

	// Object storage for car photos. Optional: when S3Bucket is empty the
	// photo endpoints report media storage as unavailable.
	S3Bucket       string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:           fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:      fallback(os.Getenv("JWT_ISSUER"), "rental-backend"),
		CookieName:     fallback(os.Getenv("SESSION_COOKIE_NAME"), "token"),
		CookieSecure:   parseBool(os.Getenv("COOKIE_SECURE"), true),
		CORSOrigins:    parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       fallback(os.Getenv("S3_REGION"), "us-east-1"),
		S3AccessKey:    strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		S3SecretKey:    strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		S3BaseEndpoint: strings.TrimSpace(os.Getenv("S3_BASE_ENDPOINT")),
	}

	hours := fallback(os.Getenv("JWT_TTL_HOURS"), "24")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.JWTTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.JWTTTL = 24 * time.Hour
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// MediaConfigured reports whether the object-storage settings are complete.
func (c Config) MediaConfigured() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseBool(value string, def bool) bool {
	if strings.TrimSpace(value) == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return b
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
