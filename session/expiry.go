package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryLeeway treats an access token as expired slightly before its exp
// claim so a request is not sent with a token that lapses in transit.
const ExpiryLeeway = 10 * time.Second

// AccessTokenExpired reports whether token is a JWT whose exp claim has
// passed at now. The signature is not verified. Tokens that are not JWTs, or
// carry no exp, are never considered expired.
func AccessTokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Add(ExpiryLeeway).Before(claims.ExpiresAt.Time)
}
