// AngelaMos | 2026
// entity.go

package follow

import (
	"time"
)

// Edge statuses. Blocked is accepted by the schema but nothing sets it yet.
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	ID          string    `db:"id"`
	FollowerID  string    `db:"follower_id"`
	FollowingID string    `db:"following_id"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

// Connection is the other end of an edge with its public profile.
type Connection struct {
	FollowID   string    `db:"follow_id"`
	UserID     string    `db:"user_id"`
	Username   string    `db:"username"`
	AvatarURL  string    `db:"avatar_url"`
	Bio        string    `db:"bio"`
	FollowedAt time.Time `db:"followed_at"`
}

// Relation describes both directions between a viewer and a target.
type Relation struct {
	Following  bool    `db:"following"`
	FollowedBy bool    `db:"followed_by"`
	Status     *string `db:"status"`
}

func (r Relation) Mutual() bool {
	return r.Following && r.FollowedBy
}
