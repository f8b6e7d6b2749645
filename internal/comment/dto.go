// AngelaMos | 2026
// dto.go

package comment

import (
	"time"
)

type CreateCommentRequest struct {
	Content  string  `json:"content"   validate:"required,min=1,max=1000"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

type AuthorResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type CommentResponse struct {
	ID        string          `json:"id"`
	DiaryID   string          `json:"diary_id"`
	ParentID  *string         `json:"parent_id"`
	Content   string          `json:"content"`
	Author    *AuthorResponse `json:"author,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type ListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Count    int               `json:"count"`
}

func ToCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		DiaryID:   c.DiaryID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func ToListResponse(views []View) ListResponse {
	resp := ListResponse{
		Comments: make([]CommentResponse, 0, len(views)),
		Count:    len(views),
	}
	for i := range views {
		c := ToCommentResponse(&views[i].Comment)
		c.Author = &AuthorResponse{
			ID:        views[i].UserID,
			Username:  views[i].Username,
			AvatarURL: views[i].AvatarURL,
		}
		resp.Comments = append(resp.Comments, c)
	}
	return resp
}
