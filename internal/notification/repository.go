// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]View, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) (int64, error)
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (
			user_id, type, title, content, source_user_id, related_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_read, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		n.UserID,
		n.Type,
		n.Title,
		n.Content,
		n.SourceUserID,
		n.RelatedID,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create notification: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]View, error) {
	query := `
		SELECT n.id, n.user_id, n.type, n.title, n.content,
		       n.source_user_id, n.related_id, n.is_read, n.created_at,
		       s.username AS source_username,
		       s.avatar_url AS source_avatar_url
		FROM notifications n
		LEFT JOIN users s ON s.id = n.source_user_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT $2 OFFSET $3`

	views := []View{}
	if err := r.db.SelectContext(ctx, &views, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return views, nil
}

func (r *repository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND is_read = FALSE`

	var n int
	if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return n, nil
}

func (r *repository) MarkRead(
	ctx context.Context,
	id, userID string,
) (int64, error) {
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2 AND is_read = FALSE`

	return r.exec(ctx, "mark notification read", query, id, userID)
}

func (r *repository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE`

	return r.exec(ctx, "mark all notifications read", query, userID)
}

func (r *repository) Delete(
	ctx context.Context,
	id, userID string,
) (int64, error) {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`

	return r.exec(ctx, "delete notification", query, id, userID)
}

func (r *repository) DeleteReadOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE is_read = TRUE AND created_at < $1`

	return r.exec(ctx, "purge read notifications", query, cutoff)
}

func (r *repository) exec(
	ctx context.Context,
	op, query string,
	args ...any,
) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}
