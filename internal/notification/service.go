// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Service struct {
	repo   Repository
	unread *core.CounterCache
	logger *slog.Logger
}

// NewService accepts a nil cache, in which case unread counts always hit
// the database.
func NewService(
	repo Repository,
	unread *core.CounterCache,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{repo: repo, unread: unread, logger: logger}
}

// Create stores a notification and returns its id.
func (s *Service) Create(ctx context.Context, p Params) (string, error) {
	if p.RecipientID == "" || p.Type == "" || p.Title == "" {
		return "", fmt.Errorf("create notification: %w", core.ErrInvalidInput)
	}

	n := &Notification{
		UserID:       p.RecipientID,
		Type:         p.Type,
		Title:        p.Title,
		Content:      p.Content,
		SourceUserID: optional(p.SourceUserID),
		RelatedID:    optional(p.RelatedID),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return "", err
	}

	s.invalidate(ctx, p.RecipientID)
	return n.ID, nil
}

// Notify is the fan-out entry point for other features. Delivery is best
// effort: failures are logged and never reach the caller.
func (s *Service) Notify(ctx context.Context, p Params) {
	if _, err := s.Create(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "notification dropped",
			"type", p.Type,
			"recipient_id", p.RecipientID,
			"source_user_id", p.SourceUserID,
			"error", err,
		)
	}
}

// List expects limit and offset already clamped by core.LimitOffset.
func (s *Service) List(
	ctx context.Context,
	userID string,
	limit, offset int,
) (*ListResponse, error) {
	views, err := s.repo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]Response, 0, len(views))
	for i := range views {
		items = append(items, ToResponse(&views[i]))
	}

	return &ListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	if n, ok := s.unread.Get(ctx, userID); ok {
		return n, nil
	}

	version, cacheable := s.unread.Version(ctx, userID)

	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if cacheable {
		if err := s.unread.Fill(ctx, userID, version, n); err != nil {
			s.logger.DebugContext(ctx, "unread count not cached", "error", err)
		}
	}

	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, id, userID string) (int64, error) {
	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.invalidate(ctx, userID)
	}
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.invalidate(ctx, userID)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	n, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}

	if n > 0 {
		s.invalidate(ctx, userID)
	}
	return nil
}

// PurgeRead removes read notifications older than retention. Cached unread
// counts are unaffected since only read rows go.
func (s *Service) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("purge notifications: %w", core.ErrInvalidInput)
	}

	return s.repo.DeleteReadOlderThan(ctx, time.Now().Add(-retention))
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if err := s.unread.Invalidate(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "unread count invalidation failed",
			"user_id", userID,
			"error", err,
		)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
