package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	APIConfig
	AuthConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetCallbackAddr() string
	GetMetricsAddr() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetRateLimit() (rps float64, burst int)
}

type mainConfig struct {
	EnvVars
	API
	Auth
	Storage
}

// New loads an optional .env file from the working directory and returns a
// Config backed by environment variables. Variables already set in the
// environment take precedence over the file.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
