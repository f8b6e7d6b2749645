// AngelaMos | 2026
// service.go

package like

import (
	"context"
	"log/slog"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/diary"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/notification"
)

type DiaryReader interface {
	Visible(ctx context.Context, id, viewerID string) (*diary.Diary, error)
}

type UserLookup interface {
	Username(ctx context.Context, id string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, p notification.Params)
}

type State struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type Service struct {
	repo     Repository
	diaries  DiaryReader
	users    UserLookup
	notifier Notifier
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	diaries DiaryReader,
	users UserLookup,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:     repo,
		diaries:  diaries,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Like is idempotent. Only the first like from a user notifies the owner.
func (s *Service) Like(ctx context.Context, diaryID, userID string) (State, error) {
	d, err := s.diaries.Visible(ctx, diaryID, userID)
	if err != nil {
		return State{}, err
	}

	added, err := s.repo.Add(ctx, diaryID, userID)
	if err != nil {
		return State{}, err
	}

	if added && d.UserID != userID {
		name, err := s.users.Username(ctx, userID)
		if err != nil || name == "" {
			s.logger.Warn("resolve liker name", "user_id", userID, "error", err)
			name = "Someone"
		}

		s.notifier.Notify(ctx, notification.Params{
			RecipientID:  d.UserID,
			Type:         notification.TypeLike,
			Title:        "New like",
			Content:      name + " liked your diary \"" + d.Title + "\"",
			SourceUserID: userID,
			RelatedID:    diaryID,
		})
	}

	return s.state(ctx, diaryID, true)
}

// Unlike is idempotent.
func (s *Service) Unlike(ctx context.Context, diaryID, userID string) (State, error) {
	if _, err := s.diaries.Visible(ctx, diaryID, userID); err != nil {
		return State{}, err
	}

	if err := s.repo.Remove(ctx, diaryID, userID); err != nil {
		return State{}, err
	}

	return s.state(ctx, diaryID, false)
}

func (s *Service) state(ctx context.Context, diaryID string, liked bool) (State, error) {
	n, err := s.repo.Count(ctx, diaryID)
	if err != nil {
		return State{}, err
	}

	return State{Liked: liked, LikeCount: n}, nil
}
