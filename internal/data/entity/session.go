package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a bearer token issued to an account at login or registration.
// Revoked sessions are kept until the janitor sweeps them.
type Session struct {
	BaseSimple
	AccountID uuid.UUID  `db:"account_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// Active reports whether the session can still authenticate at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
