// AngelaMos | 2026
// dto.go

package notification

import (
	"time"
)

// Params describes a notification to deliver.
type Params struct {
	RecipientID  string
	Type         string
	Title        string
	Content      string
	SourceUserID string
	RelatedID    string
}

type SourceUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type Response struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	SourceUser *SourceUser `json:"source_user"`
	RelatedID  *string     `json:"related_id"`
	IsRead     bool        `json:"is_read"`
	CreatedAt  time.Time   `json:"created_at"`
}

type ListResponse struct {
	Notifications []Response `json:"notifications"`
	UnreadCount   int        `json:"unread_count"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type UpdatedResponse struct {
	Updated int64 `json:"updated"`
}

// ToResponse exposes the sender only when the user row still exists.
func ToResponse(v *View) Response {
	resp := Response{
		ID:        v.ID,
		Type:      v.Type,
		Title:     v.Title,
		Content:   v.Content,
		RelatedID: v.RelatedID,
		IsRead:    v.IsRead,
		CreatedAt: v.CreatedAt,
	}

	if v.SourceUserID != nil && v.SourceUsername != nil {
		src := &SourceUser{ID: *v.SourceUserID, Username: *v.SourceUsername}
		if v.SourceAvatarURL != nil {
			src.AvatarURL = *v.SourceAvatarURL
		}
		resp.SourceUser = src
	}

	return resp
}
