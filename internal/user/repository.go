// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

// ErrUsernameTaken distinguishes the username unique constraint from the
// email one; both also match core.ErrDuplicateKey.
var (
	ErrEmailTaken    = fmt.Errorf("email taken: %w", core.ErrDuplicateKey)
	ErrUsernameTaken = fmt.Errorf("username taken: %w", core.ErrDuplicateKey)
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	Search(ctx context.Context, query string, limit int) ([]Profile, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateStatus(ctx context.Context, id, status string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	Exists(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, password_hash, username, role, status,
		       avatar_url, bio, token_version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, username, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING avatar_url, bio, created_at, updated_at, token_version`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Username,
		user.Role,
		user.Status,
	)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return fmt.Errorf("create user: %w", dup)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND status <> 'deleted'`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND status <> 'deleted'`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) GetProfile(
	ctx context.Context,
	id string,
) (*Profile, error) {
	query := `
		SELECT u.id, u.username, u.avatar_url, u.bio, u.created_at,
		       (SELECT COUNT(*) FROM follows f
		         WHERE f.following_id = u.id AND f.status = 'active') AS follower_count,
		       (SELECT COUNT(*) FROM follows f
		         WHERE f.follower_id = u.id AND f.status = 'active') AS following_count,
		       (SELECT COUNT(*) FROM diaries d
		         WHERE d.user_id = u.id AND d.visibility = 'public') AS diary_count
		FROM users u
		WHERE u.id = $1 AND u.status = 'active'`

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}

func (r *repository) Search(
	ctx context.Context,
	q string,
	limit int,
) ([]Profile, error) {
	query := `
		SELECT u.id, u.username, u.avatar_url, u.bio, u.created_at,
		       (SELECT COUNT(*) FROM follows f
		         WHERE f.following_id = u.id AND f.status = 'active') AS follower_count,
		       0 AS following_count,
		       0 AS diary_count
		FROM users u
		WHERE u.status = 'active' AND u.username ILIKE $1
		ORDER BY (LOWER(u.username) = LOWER($2)) DESC, u.username
		LIMIT $3`

	profiles := []Profile{}
	err := r.db.SelectContext(ctx, &profiles, query,
		"%"+escapeLike(q)+"%", q, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	return profiles, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = $2, avatar_url = $3, bio = $4, role = $5, updated_at = NOW()
		WHERE id = $1 AND status <> 'deleted'
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Username,
		user.AvatarURL,
		user.Bio,
		user.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return fmt.Errorf("update user: %w", dup)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'deleted'`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

// UpdateStatus also bumps token_version so that suspending a user ends
// every live session.
func (r *repository) UpdateStatus(
	ctx context.Context,
	id, status string,
) error {
	query := `
		UPDATE users
		SET status = $2,
		    token_version = CASE WHEN $2 = 'active' THEN token_version
		                         ELSE token_version + 1 END,
		    updated_at = NOW()
		WHERE id = $1 AND status <> 'deleted'`

	return r.execOne(ctx, "update status", query, id, status)
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND status <> 'deleted'`

	return r.execOne(ctx, "increment token version", query, id)
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET status = 'deleted', token_version = token_version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND status <> 'deleted'`

	return r.execOne(ctx, "delete user", query, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "status <> 'deleted'")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR username ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, email, username, role, status, avatar_url, bio,
		       token_version, created_at, updated_at
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND status = 'active')`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) AS n FROM users GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count users by status: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}

	return counts, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func duplicateKeyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	if strings.Contains(pgErr.ConstraintName, "username") {
		return ErrUsernameTaken
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return ErrEmailTaken
	}
	return core.ErrDuplicateKey
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
