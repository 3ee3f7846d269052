package config

import "strings"

type AuthMode string

const (
	// DevAuthMode exchanges the configured username and password at the
	// API's own token endpoint.
	DevAuthMode AuthMode = "dev"
	// OIDCAuthMode discovers the token endpoint from an OpenID issuer and
	// performs the password grant there.
	OIDCAuthMode AuthMode = "oidc"
)

type AuthConfig interface {
	GetAuthMode() AuthMode
	GetUsername() string
	GetPassword() string
	GetOIDCIssuer() string
	GetOIDCClientID() string
	GetOIDCClientSecret() string
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetAuthMode() AuthMode {
	return AuthMode(strings.ToLower(GetEnv("AUTH_MODE", string(DevAuthMode))))
}

func (Auth) GetUsername() string {
	return GetEnv("AUTH_USERNAME", "")
}

func (Auth) GetPassword() string {
	return GetEnv("AUTH_PASSWORD", "")
}

func (Auth) GetOIDCIssuer() string {
	return GetEnv("OIDC_ISSUER", "")
}

func (Auth) GetOIDCClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (Auth) GetOIDCClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}
