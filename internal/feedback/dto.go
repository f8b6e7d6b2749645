// AngelaMos | 2026
// dto.go

package feedback

import (
	"time"
)

type SubmitRequest struct {
	Category string `json:"category" validate:"required,oneof=bug suggestion other"`
	Content  string `json:"content"  validate:"required,min=1,max=2000"`
	Contact  string `json:"contact"  validate:"max=100"`
}

type ReplyRequest struct {
	Reply  string `json:"reply"  validate:"max=2000"`
	Status string `json:"status" validate:"omitempty,oneof=open resolved"`
}

type Response struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"user_id"`
	Category   string    `json:"category"`
	Content    string    `json:"content"`
	Contact    string    `json:"contact,omitempty"`
	Status     string    `json:"status"`
	AdminReply string    `json:"admin_reply"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListResponse struct {
	Feedback []Response `json:"feedback"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

func ToResponse(f *Feedback) Response {
	return Response{
		ID:         f.ID,
		UserID:     f.UserID,
		Category:   f.Category,
		Content:    f.Content,
		Contact:    f.Contact,
		Status:     f.Status,
		AdminReply: f.AdminReply,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func ToResponses(items []Feedback) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out
}
