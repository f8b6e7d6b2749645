// AngelaMos | 2026
// entity.go

package feedback

import (
	"time"
)

const (
	CategoryBug        = "bug"
	CategorySuggestion = "suggestion"
	CategoryOther      = "other"

	StatusOpen     = "open"
	StatusResolved = "resolved"
)

type Feedback struct {
	ID         string    `db:"id"`
	UserID     *string   `db:"user_id"`
	Category   string    `db:"category"`
	Content    string    `db:"content"`
	Contact    string    `db:"contact"`
	Status     string    `db:"status"`
	AdminReply string    `db:"admin_reply"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
