// AngelaMos | 2026
// service.go

package feedback

import (
	"context"
	"fmt"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Sanitizer interface {
	PlainText(s string) string
}

type Service struct {
	repo      Repository
	sanitizer Sanitizer
}

func NewService(repo Repository, sanitizer Sanitizer) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

// Submit accepts anonymous feedback when userID is empty.
func (s *Service) Submit(ctx context.Context, userID string, req SubmitRequest) (*Feedback, error) {
	f := &Feedback{
		Category: req.Category,
		Content:  s.sanitizer.PlainText(req.Content),
		Contact:  s.sanitizer.PlainText(req.Contact),
	}
	if userID != "" {
		f.UserID = &userID
	}

	if f.Content == "" {
		return nil, fmt.Errorf("feedback empty after sanitizing: %w", core.ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *Service) ListMine(ctx context.Context, userID string, limit, offset int) ([]Feedback, error) {
	if userID == "" {
		return nil, fmt.Errorf("list own feedback: %w", core.ErrUnauthorized)
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]Feedback, int, error) {
	if status != "" && status != StatusOpen && status != StatusResolved {
		return nil, 0, fmt.Errorf("feedback status %q: %w", status, core.ErrInvalidInput)
	}
	return s.repo.List(ctx, status, limit, offset)
}

// Reply stores the admin answer. Replying without a status resolves the
// item.
func (s *Service) Reply(ctx context.Context, id string, req ReplyRequest) (*Feedback, error) {
	status := req.Status
	if status == "" {
		status = StatusResolved
	}

	return s.repo.Reply(ctx, id, s.sanitizer.PlainText(req.Reply), status)
}
