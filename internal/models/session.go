package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server side of an authenticated session
// The client holds only the opaque Token in a cookie
type Session struct {
	Token     string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
