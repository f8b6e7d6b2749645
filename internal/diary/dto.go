// AngelaMos | 2026
// dto.go

package diary

import (
	"time"
)

type MediaInput struct {
	URL       string `json:"url"        validate:"required,url,max=2048"`
	MediaType string `json:"media_type" validate:"required,oneof=image video audio"`
}

type CreateDiaryRequest struct {
	Title      string       `json:"title"      validate:"required,min=1,max=100"`
	Content    string       `json:"content"    validate:"required,min=1,max=20000"`
	Mood       string       `json:"mood"       validate:"max=20"`
	Weather    string       `json:"weather"    validate:"max=20"`
	Visibility string       `json:"visibility" validate:"omitempty,oneof=public followers private"`
	Tags       []string     `json:"tags"       validate:"max=10,dive,min=1,max=20"`
	Media      []MediaInput `json:"media"      validate:"max=9,dive"`
}

// UpdateDiaryRequest changes only the fields present. Omitted tags or media
// are kept; an empty list clears them.
type UpdateDiaryRequest struct {
	Title      *string      `json:"title"      validate:"omitempty,min=1,max=100"`
	Content    *string      `json:"content"    validate:"omitempty,min=1,max=20000"`
	Mood       *string      `json:"mood"       validate:"omitempty,max=20"`
	Weather    *string      `json:"weather"    validate:"omitempty,max=20"`
	Visibility *string      `json:"visibility" validate:"omitempty,oneof=public followers private"`
	Tags       []string     `json:"tags"       validate:"omitempty,max=10,dive,min=1,max=20"`
	Media      []MediaInput `json:"media"      validate:"omitempty,max=9,dive"`
}

type AuthorResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type MediaResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
	Position  int    `json:"position"`
}

type DiaryResponse struct {
	ID           string          `json:"id"`
	Author       AuthorResponse  `json:"author"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Mood         string          `json:"mood"`
	Weather      string          `json:"weather"`
	Visibility   string          `json:"visibility"`
	Tags         []string        `json:"tags"`
	Media        []MediaResponse `json:"media"`
	LikeCount    int             `json:"like_count"`
	CommentCount int             `json:"comment_count"`
	LikedByMe    bool            `json:"liked_by_me"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ListResponse struct {
	Diaries []DiaryResponse `json:"diaries"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

func ToDiaryResponse(row *Row) DiaryResponse {
	resp := DiaryResponse{
		ID: row.ID,
		Author: AuthorResponse{
			ID:        row.UserID,
			Username:  row.AuthorUsername,
			AvatarURL: row.AuthorAvatarURL,
		},
		Title:        row.Title,
		Content:      row.Content,
		Mood:         row.Mood,
		Weather:      row.Weather,
		Visibility:   row.Visibility,
		Tags:         row.Tags,
		Media:        make([]MediaResponse, 0, len(row.Media)),
		LikeCount:    row.LikeCount,
		CommentCount: row.CommentCount,
		LikedByMe:    row.LikedByMe,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	for _, m := range row.Media {
		resp.Media = append(resp.Media, MediaResponse{
			ID:        m.ID,
			URL:       m.URL,
			MediaType: m.MediaType,
			Position:  m.Position,
		})
	}

	return resp
}

func ToListResponse(rows []Row, limit, offset int) ListResponse {
	resp := ListResponse{
		Diaries: make([]DiaryResponse, 0, len(rows)),
		Limit:   limit,
		Offset:  offset,
	}
	for i := range rows {
		resp.Diaries = append(resp.Diaries, ToDiaryResponse(&rows[i]))
	}
	return resp
}
