// Package session keeps the id_token of a logged-in browser between requests.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/SebbieMzingKe/iam-profile/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrNoSession      = errors.New("session not found")
	ErrSessionExpired = errors.New("session expired")
)

// Session is the state attached to a browser.
type Session struct {
	IDToken   string
	ExpiresAt time.Time
}

// Store loads and persists sessions through the request cookie.
type Store interface {
	Get(r *http.Request) (Session, error)
	Save(w http.ResponseWriter, s Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// ExpiryFromToken returns the exp claim of an id_token, or fallback when the
// token carries none. The signature is not checked.
func ExpiryFromToken(idToken string, fallback time.Time) time.Time {
	claims := &models.IDTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return fallback
	}
	if claims.ExpiresAt == nil {
		return fallback
	}
	return claims.ExpiresAt.Time
}

func newCookie(name, value string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	}
}

func expiredCookie(name string, secure bool) *http.Cookie {
	c := newCookie(name, "", time.Unix(0, 0), secure)
	c.MaxAge = -1
	return c
}
