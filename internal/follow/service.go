// AngelaMos | 2026
// service.go

package follow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/notification"
)

var (
	ErrMissingTarget    = fmt.Errorf("target user id required: %w", core.ErrInvalidInput)
	ErrSelfFollow       = fmt.Errorf("cannot follow yourself: %w", core.ErrInvalidInput)
	ErrAlreadyFollowing = fmt.Errorf("already following: %w", core.ErrDuplicateKey)
	ErrUserNotFound     = fmt.Errorf("target user: %w", core.ErrNotFound)
)

const (
	titleFollow = "New follower"
	titleMutual = "New mutual follow"

	fallbackActor = "Someone"
)

// UserLookup resolves active accounts. Missing or inactive users yield
// core.ErrNotFound.
type UserLookup interface {
	Username(ctx context.Context, id string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, p notification.Params)
}

type Result struct {
	FollowID string
	IsMutual bool
}

type Service struct {
	repo     Repository
	users    UserLookup
	notifier Notifier
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	users UserLookup,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Follow creates the edge followerID -> followingID and notifies the
// target. A notification failure never fails the follow.
func (s *Service) Follow(
	ctx context.Context,
	followerID, followingID string,
) (*Result, error) {
	ctx, span := core.StartSpan(ctx, "follow.Follow",
		attribute.String("follower_id", followerID),
		attribute.String("following_id", followingID),
	)
	defer span.End()

	followingID = strings.TrimSpace(followingID)
	if followingID == "" {
		return nil, ErrMissingTarget
	}
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	if _, err := s.users.Username(ctx, followingID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("follow: %w", err)
	}

	exists, err := s.repo.Exists(ctx, followerID, followingID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("follow: %w", err)
	}
	if exists {
		return nil, ErrAlreadyFollowing
	}

	edge, mutual, err := s.repo.Create(ctx, followerID, followingID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			return nil, ErrAlreadyFollowing
		case errors.Is(err, core.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, core.ErrInvalidInput):
			return nil, ErrSelfFollow
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("follow: %w", err)
	}

	core.AddSpanEvent(ctx, "follow.created", attribute.Bool("mutual", mutual))

	s.notifyFollowed(ctx, edge, mutual)

	return &Result{FollowID: edge.ID, IsMutual: mutual}, nil
}

func (s *Service) notifyFollowed(ctx context.Context, edge *Follow, mutual bool) {
	actor, err := s.users.Username(ctx, edge.FollowerID)
	if err != nil || actor == "" {
		s.logger.Warn("resolve follower name",
			"follower_id", edge.FollowerID,
			"error", err,
		)
		actor = fallbackActor
	}

	title, content := FollowMessage(actor, mutual)

	s.notifier.Notify(ctx, notification.Params{
		RecipientID:  edge.FollowingID,
		Type:         notification.TypeFollow,
		Title:        title,
		Content:      content,
		SourceUserID: edge.FollowerID,
		RelatedID:    edge.ID,
	})
}

// FollowMessage renders the notification text for a new edge.
func FollowMessage(actor string, mutual bool) (title, content string) {
	if mutual {
		return titleMutual, actor + " followed you back, you now follow each other"
	}
	return titleFollow, actor + " started following you"
}

// Unfollow removes the edge if present. Removing a missing edge succeeds.
func (s *Service) Unfollow(
	ctx context.Context,
	followerID, followingID string,
) error {
	followingID = strings.TrimSpace(followingID)
	if followingID == "" {
		return ErrMissingTarget
	}

	removed, err := s.repo.Delete(ctx, followerID, followingID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}

	if removed == 0 {
		s.logger.Debug("unfollow without edge",
			"follower_id", followerID,
			"following_id", followingID,
		)
	}

	return nil
}

func (s *Service) Following(ctx context.Context, userID string) ([]Connection, error) {
	return s.repo.ListFollowing(ctx, userID)
}

func (s *Service) Followers(ctx context.Context, userID string) ([]Connection, error) {
	return s.repo.ListFollowers(ctx, userID)
}

// Relation reports both directions between the viewer and target.
func (s *Service) Relation(
	ctx context.Context,
	viewerID, targetID string,
) (*Relation, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, ErrMissingTarget
	}

	if viewerID == targetID {
		return &Relation{}, nil
	}

	return s.repo.Relation(ctx, viewerID, targetID)
}

func (s *Service) Counts(ctx context.Context, userID string) (CountsResponse, error) {
	followers, following, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return CountsResponse{}, err
	}

	return CountsResponse{Followers: followers, Following: following}, nil
}
