package remote

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// checkAccessToken fails with ErrUnauthorized when token is a JWT whose exp
// claim is in the past. Opaque (non-JWT) tokens are left to the server.
// The signature is not verified: only the server can do that.
func checkAccessToken(token string, now time.Time) error {
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !now.Before(exp.Time) {
		return fmt.Errorf("%w: access token expired at %s", ErrUnauthorized, exp.Time.UTC().Format(time.RFC3339))
	}
	return nil
}
