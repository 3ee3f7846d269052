package config

import (
	"strings"
	"time"
)

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the base path every remote call is resolved against,
// without a trailing slash.
func (API) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv("API_BASE_URL", "http://localhost:8000/api"), "/")
}

func (API) GetRequestTimeout() time.Duration {
	return GetEnvDuration("REQUEST_TIMEOUT", 15*time.Second)
}

// GetRateLimit returns zero rps when outbound requests are not limited.
func (API) GetRateLimit() (float64, int) {
	return GetEnvFloat("RATE_LIMIT_RPS", 0), GetEnvInt("RATE_LIMIT_BURST", 1)
}
