// AngelaMos | 2026
// dto.go

package announcement

import (
	"time"
)

type CreateRequest struct {
	Title       string `json:"title"        validate:"required,min=1,max=100"`
	Content     string `json:"content"      validate:"required,min=1,max=20000"`
	IsPinned    bool   `json:"is_pinned"`
	IsPublished bool   `json:"is_published"`
}

type UpdateRequest struct {
	Title       *string `json:"title"        validate:"omitempty,min=1,max=100"`
	Content     *string `json:"content"      validate:"omitempty,min=1,max=20000"`
	IsPinned    *bool   `json:"is_pinned"`
	IsPublished *bool   `json:"is_published"`
}

type Response struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsPinned    bool      `json:"is_pinned"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListResponse struct {
	Announcements []Response `json:"announcements"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
}

func ToResponse(a *Announcement) Response {
	return Response{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		IsPinned:    a.IsPinned,
		IsPublished: a.IsPublished,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func ToListResponse(items []Announcement, limit, offset int) ListResponse {
	resp := ListResponse{
		Announcements: make([]Response, 0, len(items)),
		Limit:         limit,
		Offset:        offset,
	}
	for i := range items {
		resp.Announcements = append(resp.Announcements, ToResponse(&items[i]))
	}
	return resp
}
