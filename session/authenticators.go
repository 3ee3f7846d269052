package session

import (
	"context"
	"fmt"

	"github.com/jrsteele09/social-dashboard/apiclient"
	"github.com/jrsteele09/social-dashboard/credentials"
)

const (
	TokenPath        = "/token/"
	TokenRefreshPath = "/token/refresh/"
)

// tokenRequest is the body of a credential acquisition call.
type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// tokenResponse is returned by both the token and token refresh endpoints.
// The refresh endpoint omits Refresh unless it rotates refresh tokens.
type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (r tokenResponse) pair() credentials.Pair {
	return credentials.Pair{AccessToken: r.Access, RefreshToken: r.Refresh}
}

// PasswordAuthenticator exchanges a fixed identity for a credential pair at
// the API's token endpoint. It suits trusted development contexts; the
// identity is always supplied by configuration.
type PasswordAuthenticator struct {
	api      apiclient.API
	username string
	password string
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

func NewPasswordAuthenticator(api apiclient.API, username, password string) *PasswordAuthenticator {
	return &PasswordAuthenticator{api: api, username: username, password: password}
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context) (credentials.Pair, error) {
	if a.username == "" || a.password == "" {
		return credentials.Pair{}, fmt.Errorf("no username or password configured")
	}
	var resp tokenResponse
	if err := a.api.Post(ctx, TokenPath, tokenRequest{Username: a.username, Password: a.password}, &resp); err != nil {
		return credentials.Pair{}, err
	}
	return resp.pair(), nil
}

// APIRefresher renews credentials at the API's token refresh endpoint. The
// api given to it must be the raw client, not the Gate, so a refresh call is
// never itself subject to refresh handling.
type APIRefresher struct {
	api apiclient.API
}

var _ Refresher = (*APIRefresher)(nil)

func NewAPIRefresher(api apiclient.API) *APIRefresher {
	return &APIRefresher{api: api}
}

func (r *APIRefresher) Refresh(ctx context.Context, refreshToken string) (credentials.Pair, error) {
	var resp tokenResponse
	if err := r.api.Post(ctx, TokenRefreshPath, refreshRequest{Refresh: refreshToken}, &resp); err != nil {
		return credentials.Pair{}, err
	}
	return resp.pair(), nil
}
