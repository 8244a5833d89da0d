package models

import (
	"time"
)

// Session is a server-side login session for the database store.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Profile   string    `json:"profile" gorm:"index;not null"`
	IDToken   string    `json:"-" gorm:"type:text;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
