package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim without verifying the signature. The backend owns the
// signing key; the portal only uses exp to drop sessions that can no longer work.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ExpiryFor picks the earlier of the token's exp and now+ttl.
func ExpiryFor(token string, now time.Time, ttl time.Duration) time.Time {
	limit := now.Add(ttl)
	if exp, ok := TokenExpiry(token); ok && exp.Before(limit) {
		return exp
	}
	return limit
}
