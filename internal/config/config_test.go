package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "workflow-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())

	assert.Equal(t, 24*time.Hour, cfg.Auth.AuthTokenTTL())
	assert.Equal(t, time.Hour, cfg.Auth.EmailVerificationTTL())
	assert.Equal(t, 30*time.Minute, cfg.Auth.PasswordResetTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.InvitationTTL())
	assert.Equal(t, time.Duration(0), cfg.Auth.ClockSkew())
	assert.Equal(t, DefaultPublicPaths, cfg.Auth.PublicPaths)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "15")
	t.Setenv("AUTH_CLOCK_SKEW_SECONDS", "120")
	t.Setenv("AUTH_PUBLIC_PATHS", "/api/v1/auth/*, /ping ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.AuthTokenTTL())
	assert.Equal(t, 2*time.Minute, cfg.Auth.ClockSkew())
	assert.Equal(t, []string{"/api/v1/auth/*", "/ping"}, cfg.Auth.PublicPaths)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
