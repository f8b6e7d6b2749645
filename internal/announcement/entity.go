// AngelaMos | 2026
// entity.go

package announcement

import (
	"time"
)

type Announcement struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	IsPinned    bool      `db:"is_pinned"`
	IsPublished bool      `db:"is_published"`
	CreatedBy   *string   `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
