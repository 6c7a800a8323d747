package domain

import "time"

const (
	// SessionTTL is the nominal lifetime of a session and its cookie.
	SessionTTL = 7 * 24 * time.Hour
	// SessionExpiryBuffer is subtracted from ExpiresAt before every validity
	// check, so a session stops being usable five minutes early.
	SessionExpiryBuffer = 5 * time.Minute
	// MaxSessionsPerUser caps concurrently stored sessions for one user.
	MaxSessionsPerUser = 5
)

// Session binds an opaque token to a user for a bounded time.
//
//	Active ──(now >= ExpiresAt-buffer)──> Expired
//	Active ──(logout | cap eviction)────> Revoked ──> Deleted
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Usable reports whether the session may authenticate a request at now.
func (s Session) Usable(now time.Time) bool {
	return now.Before(s.ExpiresAt.Add(-SessionExpiryBuffer))
}
