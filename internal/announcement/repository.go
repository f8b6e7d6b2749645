// AngelaMos | 2026
// repository.go

package announcement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id string) (int64, error)
	GetByID(ctx context.Context, id string) (*Announcement, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]Announcement, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const columns = `id, title, content, is_pinned, is_published, created_by,
		       created_at, updated_at`

func (r *repository) Create(ctx context.Context, a *Announcement) error {
	query := `
		INSERT INTO announcements (title, content, is_pinned, is_published, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		a.Title,
		a.Content,
		a.IsPinned,
		a.IsPublished,
		a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, a *Announcement) error {
	query := `
		UPDATE announcements
		SET title = $2, content = $3, is_pinned = $4, is_published = $5,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &a.UpdatedAt, query,
		a.ID,
		a.Title,
		a.Content,
		a.IsPinned,
		a.IsPublished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update announcement: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete announcement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete announcement: %w", err)
	}

	return rows, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Announcement, error) {
	query := `SELECT ` + columns + ` FROM announcements WHERE id = $1`

	var a Announcement
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get announcement: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}

	return &a, nil
}

// List orders pinned announcements first, then newest.
func (r *repository) List(
	ctx context.Context,
	publishedOnly bool,
	limit, offset int,
) ([]Announcement, error) {
	query := `
		SELECT ` + columns + `
		FROM announcements
		WHERE ($1 = FALSE OR is_published)
		ORDER BY is_pinned DESC, created_at DESC
		LIMIT $2 OFFSET $3`

	items := []Announcement{}
	if err := r.db.SelectContext(ctx, &items, query, publishedOnly, limit, offset); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	return items, nil
}
