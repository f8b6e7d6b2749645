// AngelaMos | 2026
// dto.go

package follow

import (
	"strings"
	"time"
)

// FollowRequest accepts the legacy friend_id field as an alias.
type FollowRequest struct {
	FollowingID string `json:"following_id"`
	FriendID    string `json:"friend_id"`
}

func (r FollowRequest) Target() string {
	if id := strings.TrimSpace(r.FollowingID); id != "" {
		return id
	}
	return strings.TrimSpace(r.FriendID)
}

type FollowResponse struct {
	FollowID string `json:"follow_id"`
	IsMutual bool   `json:"is_mutual"`
	Message  string `json:"message"`
}

type ConnectionResponse struct {
	FollowID   string    `json:"follow_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	AvatarURL  string    `json:"avatar_url"`
	Bio        string    `json:"bio"`
	FollowedAt time.Time `json:"followed_at"`
}

type ListResponse struct {
	Users []ConnectionResponse `json:"users"`
	Count int                  `json:"count"`
}

// StatusResponse keeps the field names older clients read.
type StatusResponse struct {
	IsFriend   bool    `json:"isFriend"`
	FollowsYou bool    `json:"followsYou"`
	IsMutual   bool    `json:"isMutual"`
	Status     *string `json:"status"`
}

type CountsResponse struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

func ToListResponse(conns []Connection) ListResponse {
	resp := ListResponse{
		Users: make([]ConnectionResponse, 0, len(conns)),
		Count: len(conns),
	}
	for _, c := range conns {
		resp.Users = append(resp.Users, ConnectionResponse{
			FollowID:   c.FollowID,
			UserID:     c.UserID,
			Username:   c.Username,
			AvatarURL:  c.AvatarURL,
			Bio:        c.Bio,
			FollowedAt: c.FollowedAt,
		})
	}
	return resp
}

func ToStatusResponse(rel *Relation) StatusResponse {
	return StatusResponse{
		IsFriend:   rel.Following,
		FollowsYou: rel.FollowedBy,
		IsMutual:   rel.Mutual(),
		Status:     rel.Status,
	}
}
