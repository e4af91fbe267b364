package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side half of a login: the client holds a signed
// token referencing this row, and deleting the row revokes the token
// before its expiry.
type Session struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
