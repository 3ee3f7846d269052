package config

import (
	"os"
	"path/filepath"
)

type StorageConfig interface {
	GetCredentialsFile() string
	GetCredentialsPassphrase() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

// GetCredentialsFile defaults to a file under the user's config directory so
// the session survives restarts.
func (Storage) GetCredentialsFile() string {
	if path := GetEnv("CREDENTIALS_FILE", ""); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "social-dashboard", "credentials.json")
}

// GetCredentialsPassphrase returns an empty string when the credentials file
// is stored unencrypted.
func (Storage) GetCredentialsPassphrase() string {
	return GetEnv("CREDENTIALS_PASSPHRASE", "")
}
