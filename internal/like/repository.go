// AngelaMos | 2026
// repository.go

package like

import (
	"context"
	"fmt"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Repository interface {
	Add(ctx context.Context, diaryID, userID string) (bool, error)
	Remove(ctx context.Context, diaryID, userID string) error
	Count(ctx context.Context, diaryID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Add reports whether a new like row was written.
func (r *repository) Add(ctx context.Context, diaryID, userID string) (bool, error) {
	query := `
		INSERT INTO likes (diary_id, user_id) VALUES ($1, $2)
		ON CONFLICT (diary_id, user_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, diaryID, userID)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("add like: %w", core.ErrNotFound)
		}
		return false, fmt.Errorf("add like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) Remove(ctx context.Context, diaryID, userID string) error {
	query := `DELETE FROM likes WHERE diary_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, diaryID, userID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context, diaryID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM likes WHERE diary_id = $1`, diaryID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return n, nil
}
