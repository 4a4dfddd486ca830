package apiclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt reads the exp claim of a JWT without verifying its signature.
// Opaque or malformed tokens report ok=false.
func ExpiresAt(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// KnownExpired reports whether raw is a JWT whose expiry is not after now.
func KnownExpired(raw string, now time.Time) bool {
	exp, ok := ExpiresAt(raw)
	return ok && !exp.After(now)
}
