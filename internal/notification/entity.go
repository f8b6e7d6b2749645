// AngelaMos | 2026
// entity.go

package notification

import (
	"time"
)

const (
	TypeFollow       = "follow"
	TypeLike         = "like"
	TypeComment      = "comment"
	TypeAnnouncement = "announcement"
	TypeSystem       = "system"
)

type Notification struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Type         string    `db:"type"`
	Title        string    `db:"title"`
	Content      string    `db:"content"`
	SourceUserID *string   `db:"source_user_id"`
	RelatedID    *string   `db:"related_id"`
	IsRead       bool      `db:"is_read"`
	CreatedAt    time.Time `db:"created_at"`
}

// View is a notification joined with its sender. The sender columns are
// NULL when the source user is gone.
type View struct {
	Notification
	SourceUsername  *string `db:"source_username"`
	SourceAvatarURL *string `db:"source_avatar_url"`
}
