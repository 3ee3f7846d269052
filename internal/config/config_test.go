package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/social-dashboard/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("ENV", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("RATE_LIMIT_RPS", "")

	c := config.New()
	require.Equal(t, "http://localhost:8000/api", c.GetAPIBaseURL())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, config.DevAuthMode, c.GetAuthMode())
	require.Equal(t, 15*time.Second, c.GetRequestTimeout())

	rps, burst := c.GetRateLimit()
	require.Zero(t, rps)
	require.Equal(t, 1, burst)
}

func TestConfig_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api/")
	t.Setenv("ENV", "prod")
	t.Setenv("AUTH_MODE", "OIDC")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_RPS", "4.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("CREDENTIALS_FILE", "/tmp/creds.json")

	c := config.New()
	require.Equal(t, "https://api.example.com/api", c.GetAPIBaseURL())
	require.Equal(t, "PROD", c.GetEnv())
	require.Equal(t, config.OIDCAuthMode, c.GetAuthMode())
	require.Equal(t, 2*time.Second, c.GetRequestTimeout())
	require.Equal(t, "/tmp/creds.json", c.GetCredentialsFile())

	rps, burst := c.GetRateLimit()
	require.InDelta(t, 4.5, rps, 0.0001)
	require.Equal(t, 3, burst)
}

func TestConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_BURST", "many")

	c := config.New()
	require.Equal(t, 15*time.Second, c.GetRequestTimeout())
	_, burst := c.GetRateLimit()
	require.Equal(t, 1, burst)
}
