package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/social-dashboard/credentials"
	"github.com/jrsteele09/social-dashboard/session"
	"github.com/stretchr/testify/require"
)

// newOIDCServer serves a discovery document and a token endpoint supporting
// the password and refresh_token grants.
func newOIDCServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                                srv.URL,
			"authorization_endpoint":                srv.URL + "/authorize",
			"token_endpoint":                        srv.URL + "/token",
			"jwks_uri":                              srv.URL + "/jwks",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		resp := map[string]any{"token_type": "Bearer", "expires_in": 900}
		switch r.PostForm.Get("grant_type") {
		case "password":
			if r.PostForm.Get("username") != "owner" || r.PostForm.Get("password") != "s3cret" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			resp["access_token"] = "oidc-access"
			resp["refresh_token"] = "oidc-refresh"
		case "refresh_token":
			resp["access_token"] = "renewed-" + r.PostForm.Get("refresh_token")
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return srv
}

func TestOIDCAuthenticator(t *testing.T) {
	srv := newOIDCServer(t)
	ctx := context.Background()

	t.Run("password grant", func(t *testing.T) {
		a, err := session.NewOIDCAuthenticator(ctx, session.OIDCParams{
			Issuer:     srv.URL,
			ClientID:   "dashboard",
			Username:   "owner",
			Password:   "s3cret",
			HTTPClient: srv.Client(),
		})
		require.NoError(t, err)

		pair, err := a.Authenticate(ctx)
		require.NoError(t, err)
		require.Equal(t, credentials.Pair{AccessToken: "oidc-access", RefreshToken: "oidc-refresh"}, pair)

		refreshed, err := a.Refresh(ctx, "oidc-refresh")
		require.NoError(t, err)
		require.Equal(t, "renewed-oidc-refresh", refreshed.AccessToken)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		a, err := session.NewOIDCAuthenticator(ctx, session.OIDCParams{
			Issuer:   srv.URL,
			ClientID: "dashboard",
			Username: "owner",
			Password: "wrong",
		})
		require.NoError(t, err)

		_, err = a.Authenticate(ctx)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid_grant")
	})

	t.Run("missing issuer", func(t *testing.T) {
		_, err := session.NewOIDCAuthenticator(ctx, session.OIDCParams{ClientID: "dashboard"})
		require.Error(t, err)
	})

	t.Run("discovery failure", func(t *testing.T) {
		_, err := session.NewOIDCAuthenticator(ctx, session.OIDCParams{Issuer: srv.URL + "/nope", ClientID: "dashboard"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "discovery failed")
	})
}
