// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Username     string    `db:"username"`
	Role         string    `db:"role"`
	Status       string    `db:"status"`
	AvatarURL    string    `db:"avatar_url"`
	Bio          string    `db:"bio"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the public face of a user, with relationship counts.
type Profile struct {
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	AvatarURL      string    `db:"avatar_url"`
	Bio            string    `db:"bio"`
	FollowerCount  int       `db:"follower_count"`
	FollowingCount int       `db:"following_count"`
	DiaryCount     int       `db:"diary_count"`
	CreatedAt      time.Time `db:"created_at"`
}

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusDeleted   = "deleted"
)
