package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/social-dashboard/credentials"
	"github.com/jrsteele09/social-dashboard/internal/errors"
	"golang.org/x/oauth2"
)

// OIDCAuthenticator obtains credentials from an OpenID Connect provider using
// the resource owner password grant. The token endpoint is discovered from the
// issuer.
type OIDCAuthenticator struct {
	config     *oauth2.Config
	username   string
	password   string
	httpClient *http.Client
}

var (
	_ Authenticator = (*OIDCAuthenticator)(nil)
	_ Refresher     = (*OIDCAuthenticator)(nil)
)

type OIDCParams struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scopes       []string
	// HTTPClient is used for discovery and token calls. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client
}

func NewOIDCAuthenticator(ctx context.Context, params OIDCParams) (*OIDCAuthenticator, error) {
	if params.Issuer == "" || params.ClientID == "" {
		return nil, fmt.Errorf("[NewOIDCAuthenticator] issuer and client id are required")
	}
	a := &OIDCAuthenticator{
		username:   params.Username,
		password:   params.Password,
		httpClient: params.HTTPClient,
	}

	provider, err := oidc.NewProvider(a.clientContext(ctx), params.Issuer)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewOIDCAuthenticator] discovery failed for %s", params.Issuer)
	}

	scopes := append([]string{oidc.ScopeOpenID, oidc.ScopeOfflineAccess}, params.Scopes...)
	a.config = &oauth2.Config{
		ClientID:     params.ClientID,
		ClientSecret: params.ClientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}
	return a, nil
}

func (a *OIDCAuthenticator) Authenticate(ctx context.Context) (credentials.Pair, error) {
	if a.username == "" || a.password == "" {
		return credentials.Pair{}, fmt.Errorf("no username or password configured")
	}
	tok, err := a.config.PasswordCredentialsToken(a.clientContext(ctx), a.username, a.password)
	if err != nil {
		return credentials.Pair{}, err
	}
	return credentials.Pair{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}, nil
}

func (a *OIDCAuthenticator) Refresh(ctx context.Context, refreshToken string) (credentials.Pair, error) {
	// A token without an access token is never valid, so the source always
	// performs the refresh grant.
	tok, err := a.config.TokenSource(a.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return credentials.Pair{}, err
	}
	return credentials.Pair{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}, nil
}

func (a *OIDCAuthenticator) clientContext(ctx context.Context) context.Context {
	if a.httpClient == nil {
		return ctx
	}
	return oidc.ClientContext(ctx, a.httpClient)
}
