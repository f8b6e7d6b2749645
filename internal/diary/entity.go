// AngelaMos | 2026
// entity.go

package diary

import (
	"time"
)

const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityPrivate   = "private"
)

const (
	MaxTags  = 10
	MaxMedia = 9
)

type Diary struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	Mood       string    `db:"mood"`
	Weather    string    `db:"weather"`
	Visibility string    `db:"visibility"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Media struct {
	ID        string `db:"id"`
	DiaryID   string `db:"diary_id"`
	URL       string `db:"url"`
	MediaType string `db:"media_type"`
	Position  int    `db:"position"`
}

// Row is a diary with its author and aggregates as seen by one viewer.
type Row struct {
	Diary
	AuthorUsername  string `db:"author_username"`
	AuthorAvatarURL string `db:"author_avatar_url"`
	LikeCount       int    `db:"like_count"`
	CommentCount    int    `db:"comment_count"`
	LikedByMe       bool   `db:"liked_by_me"`

	Tags  []string `db:"-"`
	Media []Media  `db:"-"`
}

type Scope int

const (
	// ScopePublic lists public diaries from every author.
	ScopePublic Scope = iota
	// ScopeAuthor lists one author's diaries the viewer may see.
	ScopeAuthor
	// ScopeFeed lists diaries of authors the viewer follows.
	ScopeFeed
)

type ListFilter struct {
	Scope    Scope
	ViewerID string
	AuthorID string
	Tag      string
	Limit    int
	Offset   int
}
