package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiredKeys(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/rental")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/rental", cfg.DatabaseURL)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rental")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("SESSION_COOKIE_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "token", cfg.CookieName)
	assert.Equal(t, "rental-backend", cfg.JWTIssuer)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.MediaConfigured())
}

func TestLoad_TTLAndCORS(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rental")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_HOURS", "720")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 720*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_InvalidTTLFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rental")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_HOURS", "zero")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestMediaConfigured(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rental")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("S3_BUCKET", "fleet-photos")
	t.Setenv("S3_ACCESS_KEY", "minio")
	t.Setenv("S3_SECRET_KEY", "minio123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MediaConfigured())
}
