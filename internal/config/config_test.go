package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "711", cfg.UsersTableID)
	assert.Equal(t, "713", cfg.SchedulesTableID)
	assert.Equal(t, "primary", cfg.GoogleCalendarID)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoad_AddsWWWOriginForHTTPSFrontend(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://app.example.com")

	cfg := Load()

	assert.Equal(t, []string{"https://app.example.com", "https://www.app.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_AllowedOriginsOverride(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	cfg := Load()

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	assert.Equal(t, 10*time.Second, Load().UpstreamTimeout)

	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	assert.Equal(t, 3*time.Second, Load().UpstreamTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Environment: "development"}
	require.Error(t, cfg.Validate())

	cfg.GoogleClientID = "id"
	cfg.GoogleClientSecret = "secret"
	cfg.GoogleRedirectURI = "http://localhost:3001/google/auth/callback"
	require.NoError(t, cfg.Validate())

	cfg.Environment = "production"
	require.Error(t, cfg.Validate(), "production needs a row store")

	cfg.BaserowURL = "https://rows.example.com"
	require.NoError(t, cfg.Validate())
}

func TestLoad_TrustProxy(t *testing.T) {
	t.Setenv("TRUST_PROXY", "true")
	assert.True(t, Load().TrustProxy)

	t.Setenv("TRUST_PROXY", "nonsense")
	assert.False(t, Load().TrustProxy)
}
