// AngelaMos | 2026
// service.go

package announcement

import (
	"context"
	"fmt"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Sanitizer interface {
	RichText(s string) string
	PlainText(s string) string
}

// Service serves announcements. Readers pull them; publishing sends no
// notifications.
type Service struct {
	repo      Repository
	sanitizer Sanitizer
}

func NewService(repo Repository, sanitizer Sanitizer) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

func (s *Service) ListPublished(ctx context.Context, limit, offset int) ([]Announcement, error) {
	return s.repo.List(ctx, true, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Announcement, error) {
	return s.repo.List(ctx, false, limit, offset)
}

// GetPublished hides drafts from non-admin readers.
func (s *Service) GetPublished(ctx context.Context, id string) (*Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.IsPublished {
		return nil, fmt.Errorf("announcement %s unpublished: %w", id, core.ErrNotFound)
	}

	return a, nil
}

func (s *Service) Create(ctx context.Context, adminID string, req CreateRequest) (*Announcement, error) {
	a := &Announcement{
		Title:       s.sanitizer.PlainText(req.Title),
		Content:     s.sanitizer.RichText(req.Content),
		IsPinned:    req.IsPinned,
		IsPublished: req.IsPublished,
	}
	if adminID != "" {
		a.CreatedBy = &adminID
	}

	if a.Title == "" || a.Content == "" {
		return nil, fmt.Errorf("announcement empty after sanitizing: %w", core.ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = s.sanitizer.PlainText(*req.Title)
	}
	if req.Content != nil {
		a.Content = s.sanitizer.RichText(*req.Content)
	}
	if req.IsPinned != nil {
		a.IsPinned = *req.IsPinned
	}
	if req.IsPublished != nil {
		a.IsPublished = *req.IsPublished
	}

	if a.Title == "" || a.Content == "" {
		return nil, fmt.Errorf("announcement empty after sanitizing: %w", core.ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete announcement: %w", core.ErrNotFound)
	}
	return nil
}
