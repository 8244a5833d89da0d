package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		expected  bool
	}{
		{name: "no expiry", expiresAt: time.Time{}, expected: false},
		{name: "future", expiresAt: now.Add(time.Minute), expected: false},
		{name: "exactly now", expiresAt: now, expected: true},
		{name: "past", expiresAt: now.Add(-time.Minute), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Session{ExpiresAt: tt.expiresAt}.Expired(now))
		})
	}
}
