// AngelaMos | 2026
// repository.go

package follow

import (
	"context"
	"fmt"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Repository interface {
	ListFollowing(ctx context.Context, userID string) ([]Connection, error)
	ListFollowers(ctx context.Context, userID string) ([]Connection, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	Create(ctx context.Context, followerID, followingID string) (*Follow, bool, error)
	Delete(ctx context.Context, followerID, followingID string) (int64, error)
	Relation(ctx context.Context, userID, targetID string) (*Relation, error)
	Counts(ctx context.Context, userID string) (followers, following int, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListFollowing(
	ctx context.Context,
	userID string,
) ([]Connection, error) {
	query := `
		SELECT f.id AS follow_id, u.id AS user_id, u.username, u.avatar_url,
		       u.bio, f.created_at AS followed_at
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1 AND f.status = 'active'
		  AND u.status = 'active'
		ORDER BY f.created_at DESC`

	conns := []Connection{}
	if err := r.db.SelectContext(ctx, &conns, query, userID); err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}

	return conns, nil
}

func (r *repository) ListFollowers(
	ctx context.Context,
	userID string,
) ([]Connection, error) {
	query := `
		SELECT f.id AS follow_id, u.id AS user_id, u.username, u.avatar_url,
		       u.bio, f.created_at AS followed_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1 AND f.status = 'active'
		  AND u.status = 'active'
		ORDER BY f.created_at DESC`

	conns := []Connection{}
	if err := r.db.SelectContext(ctx, &conns, query, userID); err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}

	return conns, nil
}

// Exists matches an edge in any status, so a reserved blocked edge still
// counts as a duplicate.
func (r *repository) Exists(
	ctx context.Context,
	followerID, followingID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, followerID, followingID); err != nil {
		return false, fmt.Errorf("check follow exists: %w", err)
	}

	return exists, nil
}

// Create inserts an active edge and reports whether the reverse edge
// already exists. A concurrent duplicate surfaces as core.ErrDuplicateKey.
func (r *repository) Create(
	ctx context.Context,
	followerID, followingID string,
) (*Follow, bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id, status)
		VALUES ($1, $2, 'active')
		RETURNING id, created_at,
		          EXISTS(
		              SELECT 1 FROM follows
		              WHERE follower_id = $2 AND following_id = $1
		                AND status = 'active'
		          ) AS is_mutual`

	f := &Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      StatusActive,
	}

	var mutual bool
	err := r.db.QueryRowxContext(ctx, query, followerID, followingID).
		Scan(&f.ID, &f.CreatedAt, &mutual)
	if err != nil {
		switch {
		case core.IsUniqueViolation(err):
			return nil, false, fmt.Errorf("create follow: %w", core.ErrDuplicateKey)
		case core.IsCheckViolation(err):
			return nil, false, fmt.Errorf("create follow: %w", core.ErrInvalidInput)
		case core.IsForeignKeyViolation(err):
			return nil, false, fmt.Errorf("create follow: %w", core.ErrNotFound)
		}
		return nil, false, fmt.Errorf("create follow: %w", err)
	}

	return f, mutual, nil
}

func (r *repository) Delete(
	ctx context.Context,
	followerID, followingID string,
) (int64, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return 0, fmt.Errorf("delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete follow: %w", err)
	}

	return rows, nil
}

func (r *repository) Relation(
	ctx context.Context,
	userID, targetID string,
) (*Relation, error) {
	query := `
		SELECT
			EXISTS(
				SELECT 1 FROM follows
				WHERE follower_id = $1 AND following_id = $2 AND status = 'active'
			) AS following,
			EXISTS(
				SELECT 1 FROM follows
				WHERE follower_id = $2 AND following_id = $1 AND status = 'active'
			) AS followed_by,
			(
				SELECT status FROM follows
				WHERE follower_id = $1 AND following_id = $2
			) AS status`

	var rel Relation
	if err := r.db.GetContext(ctx, &rel, query, userID, targetID); err != nil {
		return nil, fmt.Errorf("follow relation: %w", err)
	}

	return &rel, nil
}

// Counts skips inactive accounts the same way the lists do.
func (r *repository) Counts(
	ctx context.Context,
	userID string,
) (int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM follows f
			   JOIN users u ON u.id = f.follower_id
			  WHERE f.following_id = $1 AND f.status = 'active'
			    AND u.status = 'active') AS followers,
			(SELECT COUNT(*) FROM follows f
			   JOIN users u ON u.id = f.following_id
			  WHERE f.follower_id = $1 AND f.status = 'active'
			    AND u.status = 'active') AS following`

	var counts struct {
		Followers int `db:"followers"`
		Following int `db:"following"`
	}
	if err := r.db.GetContext(ctx, &counts, query, userID); err != nil {
		return 0, 0, fmt.Errorf("follow counts: %w", err)
	}

	return counts.Followers, counts.Following, nil
}
