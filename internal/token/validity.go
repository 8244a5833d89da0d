package token

import (
	"math"
	"strconv"
	"time"
)

// IsValid reports whether the claims are unexpired at the current time.
func IsValid(claims *Claims) bool {
	return IsValidAt(claims, time.Now())
}

// IsValidAt reports whether the claims are unexpired at now. A token without
// an exp claim never expires. An exp equal to now is expired.
func IsValidAt(claims *Claims, now time.Time) bool {
	if !claims.Truthy(ClaimExpiry) {
		return true
	}
	exp, ok := Expiry(claims)
	if !ok {
		return false
	}
	return exp > float64(now.Unix())
}

// Expiry returns the exp claim in epoch seconds. Finite numeric strings are
// accepted.
func Expiry(claims *Claims) (float64, bool) {
	if n, ok := claims.Number(ClaimExpiry); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	if s, ok := claims.String(ClaimExpiry); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Check returns ErrExpired when the claims are no longer valid at now.
func Check(claims *Claims, now time.Time) error {
	if IsValidAt(claims, now) {
		return nil
	}
	return newError(ErrCodeExpired, nil)
}

// EpochTime converts epoch seconds, fractional part included, to a time.Time.
func EpochTime(seconds float64) time.Time {
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
