// AngelaMos | 2026
// service.go

package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
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

type Sanitizer interface {
	PlainText(s string) string
}

type Service struct {
	repo      Repository
	diaries   DiaryReader
	users     UserLookup
	notifier  Notifier
	sanitizer Sanitizer
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	diaries DiaryReader,
	users UserLookup,
	notifier Notifier,
	sanitizer Sanitizer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:      repo,
		diaries:   diaries,
		users:     users,
		notifier:  notifier,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, diaryID, viewerID string) ([]View, error) {
	if _, err := s.diaries.Visible(ctx, diaryID, viewerID); err != nil {
		return nil, err
	}

	return s.repo.ListByDiary(ctx, diaryID)
}

// Create stores a comment on a diary the author can see and tells the
// diary owner about it.
func (s *Service) Create(
	ctx context.Context,
	diaryID, userID string,
	req CreateCommentRequest,
) (*Comment, error) {
	d, err := s.diaries.Visible(ctx, diaryID, userID)
	if err != nil {
		return nil, err
	}

	content := s.sanitizer.PlainText(req.Content)
	if content == "" {
		return nil, fmt.Errorf("comment empty after sanitizing: %w", core.ErrInvalidInput)
	}

	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.DiaryID != diaryID {
			return nil, fmt.Errorf("parent comment on another diary: %w", core.ErrInvalidInput)
		}
	}

	c := &Comment{
		DiaryID:  diaryID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  content,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if d.UserID != userID {
		s.notifier.Notify(ctx, notification.Params{
			RecipientID:  d.UserID,
			Type:         notification.TypeComment,
			Title:        "New comment",
			Content:      s.actor(ctx, userID) + " commented on your diary \"" + d.Title + "\"",
			SourceUserID: userID,
			RelatedID:    diaryID,
		})
	}

	return c, nil
}

// Delete is allowed for the comment author, the diary owner and admins.
func (s *Service) Delete(ctx context.Context, id, userID string, asAdmin bool) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !asAdmin && c.UserID != userID {
		d, err := s.diaries.Visible(ctx, c.DiaryID, userID)
		switch {
		case errors.Is(err, core.ErrNotFound):
			return fmt.Errorf("delete comment: %w", core.ErrForbidden)
		case err != nil:
			return err
		case d.UserID != userID:
			return fmt.Errorf("delete comment: %w", core.ErrForbidden)
		}
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return nil
}

func (s *Service) actor(ctx context.Context, userID string) string {
	name, err := s.users.Username(ctx, userID)
	if err != nil || name == "" {
		s.logger.Warn("resolve commenter name", "user_id", userID, "error", err)
		return "Someone"
	}
	return name
}
