package apiclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the "exp" claim of a bearer token without verifying its
// signature. The dashboard never trusts the token's contents; it only uses
// the expiry to send an admin back to login without a round trip.
// ok is false when the token is not a JWT or carries no expiry.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false
	}
	return nd.Time, true
}

// TokenExpired reports whether token carries an expiry at or before now.
// Tokens without a readable expiry are treated as live; the API has the
// final say.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return !now.Before(exp)
}
