// AngelaMos | 2026
// repository.go

package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListByDiary(ctx context.Context, diaryID string) ([]View, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (diary_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.DiaryID,
		c.UserID,
		c.ParentID,
		c.Content,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create comment: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Comment, error) {
	query := `
		SELECT id, diary_id, user_id, parent_id, content, created_at
		FROM comments
		WHERE id = $1`

	var c Comment
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &c, nil
}

// ListByDiary returns comments oldest first so threads read top-down.
func (r *repository) ListByDiary(ctx context.Context, diaryID string) ([]View, error) {
	query := `
		SELECT c.id, c.diary_id, c.user_id, c.parent_id, c.content, c.created_at,
		       u.username, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.diary_id = $1
		ORDER BY c.created_at ASC, c.id ASC`

	views := []View{}
	if err := r.db.SelectContext(ctx, &views, query, diaryID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return views, nil
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}

	return rows, nil
}
