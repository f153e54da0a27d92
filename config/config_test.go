package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GIN_MODE", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("COOKIE_SAME_SITE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, http.SameSiteStrictMode, cfg.CookieSameSite)
	assert.Equal(t, 5, cfg.MaxUploadMB)
}

func TestLoadConfigRequiresSecretInRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SECRET_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteLaxMode, parseSameSite("Lax"))
	assert.Equal(t, http.SameSiteNoneMode, parseSameSite("none"))
	assert.Equal(t, http.SameSiteStrictMode, parseSameSite("bogus"))
}

func TestGetEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_TTL", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_TTL", time.Minute))

	t.Setenv("SOME_TTL", "90m")
	assert.Equal(t, 90*time.Minute, getEnvDuration("SOME_TTL", time.Minute))
}
