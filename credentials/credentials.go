package credentials

// Well-known keys the access and refresh credentials are persisted under.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Pair is the credential pair issued by the token endpoint. Both values are
// opaque to the client. The access token is attached to every outbound
// request; the refresh token is only ever exchanged for a new pair.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store persists at most one credential Pair.
//
// Save overwrites any existing pair wholesale. Clear removes both tokens and
// is idempotent. The getters are pure reads and return "" when absent.
type Store interface {
	Save(pair Pair) error
	Clear() error
	AccessToken() string
	RefreshToken() string
}

// HasSession reports whether the store currently holds an access token. This
// is the only session signal the client uses: no expiry or signature check
// is made.
func HasSession(s Store) bool {
	return s != nil && s.AccessToken() != ""
}
