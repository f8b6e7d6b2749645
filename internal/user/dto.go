// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"   validate:"omitempty,min=3,max=10,username"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url,max=500"`
	Bio       *string `json:"bio,omitempty"        validate:"omitempty,max=200"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfileResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	AvatarURL      string    `json:"avatar_url"`
	Bio            string    `json:"bio"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	DiaryCount     int       `json:"diary_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type SearchResponse struct {
	Users []ProfileResponse `json:"users"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		Status:    u.Status,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}

func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Username:       p.Username,
		AvatarURL:      p.AvatarURL,
		Bio:            p.Bio,
		FollowerCount:  p.FollowerCount,
		FollowingCount: p.FollowingCount,
		DiaryCount:     p.DiaryCount,
		CreatedAt:      p.CreatedAt,
	}
}
