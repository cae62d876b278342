// ABOUTME: Local JWT expiry inspection for silent session restore
// ABOUTME: Parses claims without signature verification; the server stays the arbiter

package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether the token's "exp" claim has passed at the given
// instant. The claim is read without verifying the signature; the client
// holds no signing secret. A token that is malformed or carries no expiry
// is reported as not expired; the backend decides its fate on first use.
func Expired(tokenString string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return now.After(exp.Time)
}
