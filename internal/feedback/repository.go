// AngelaMos | 2026
// repository.go

package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Feedback, error)
	List(ctx context.Context, status string, limit, offset int) ([]Feedback, int, error)
	Reply(ctx context.Context, id, reply, status string) (*Feedback, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const columns = `id, user_id, category, content, contact, status, admin_reply,
		       created_at, updated_at`

func (r *repository) Create(ctx context.Context, f *Feedback) error {
	query := `
		INSERT INTO feedback (user_id, category, content, contact)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, admin_reply, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		f.UserID,
		f.Category,
		f.Content,
		f.Contact,
	).Scan(&f.ID, &f.Status, &f.AdminReply, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]Feedback, error) {
	query := `
		SELECT ` + columns + `
		FROM feedback
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	items := []Feedback{}
	if err := r.db.SelectContext(ctx, &items, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list own feedback: %w", err)
	}

	return items, nil
}

// List filters by status when status is non-empty.
func (r *repository) List(
	ctx context.Context,
	status string,
	limit, offset int,
) ([]Feedback, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM feedback WHERE ($1 = '' OR status = $1)`, status)
	if err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	query := `
		SELECT ` + columns + `
		FROM feedback
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	items := []Feedback{}
	if err := r.db.SelectContext(ctx, &items, query, status, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}

	return items, total, nil
}

func (r *repository) Reply(ctx context.Context, id, reply, status string) (*Feedback, error) {
	query := `
		UPDATE feedback
		SET admin_reply = $2, status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columns

	var f Feedback
	err := r.db.GetContext(ctx, &f, query, id, reply, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reply feedback: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reply feedback: %w", err)
	}

	return &f, nil
}
