// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// SessionState is derived from a stored refresh token; it is not a column.
type SessionState string

const (
	SessionActive  SessionState = "active"
	SessionRotated SessionState = "rotated"
	SessionRevoked SessionState = "revoked"
	SessionExpired SessionState = "expired"
)

// Session is one signed-in device. Each refresh rotates the row into a
// successor in the same family.
type Session struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	TokenHash   string     `db:"token_hash"`
	FamilyID    string     `db:"family_id"`
	ExpiresAt   time.Time  `db:"expires_at"`
	CreatedAt   time.Time  `db:"created_at"`
	Rotated     bool       `db:"is_used"`
	RotatedAt   *time.Time `db:"used_at"`
	RevokedAt   *time.Time `db:"revoked_at"`
	SuccessorID *string    `db:"replaced_by_id"`
	UserAgent   string     `db:"user_agent"`
	IPAddress   string     `db:"ip_address"`
}

// State orders the checks so that replaying a rotated token is reported
// even after it expired.
func (s *Session) State(now time.Time) SessionState {
	switch {
	case s.Rotated:
		return SessionRotated
	case s.RevokedAt != nil:
		return SessionRevoked
	case !now.Before(s.ExpiresAt):
		return SessionExpired
	default:
		return SessionActive
	}
}

func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:        s.ID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
