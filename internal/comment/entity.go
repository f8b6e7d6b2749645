// AngelaMos | 2026
// entity.go

package comment

import (
	"time"
)

type Comment struct {
	ID        string    `db:"id"`
	DiaryID   string    `db:"diary_id"`
	UserID    string    `db:"user_id"`
	ParentID  *string   `db:"parent_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// View is a comment with its author's public profile.
type View struct {
	Comment
	Username  string `db:"username"`
	AvatarURL string `db:"avatar_url"`
}
