// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

// SessionStore persists refresh-token sessions. Only hashes are stored.
type SessionStore interface {
	Insert(ctx context.Context, s *Session) error
	ByHash(ctx context.Context, tokenHash string) (*Session, error)
	Rotate(ctx context.Context, id, successorID string) error
	Revoke(ctx context.Context, userID, id string) error
	RevokeFamily(ctx context.Context, familyID string) error
	RevokeAll(ctx context.Context, userID string) (int64, error)
	Active(ctx context.Context, userID string) ([]Session, error)
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

const sessionColumns = `
	id, user_id, token_hash, family_id, expires_at, created_at,
	is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

type sessionStore struct {
	db core.DBTX
}

func NewSessionStore(db core.DBTX) SessionStore {
	return &sessionStore{db: db}
}

func (r *sessionStore) Insert(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at,
			user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &s.CreatedAt, query,
		s.ID, s.UserID, s.TokenHash, s.FamilyID, s.ExpiresAt,
		s.UserAgent, s.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (r *sessionStore) ByHash(ctx context.Context, tokenHash string) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s,
		`SELECT `+sessionColumns+` FROM refresh_tokens WHERE token_hash = $1`,
		tokenHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session by hash: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("session by hash: %w", err)
	}

	return &s, nil
}

// Rotate links id to its successor. It fails with ErrNotFound when a
// concurrent refresh already rotated the row.
func (r *sessionStore) Rotate(ctx context.Context, id, successorID string) error {
	query := `
		UPDATE refresh_tokens
		SET is_used = true, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND is_used = false`

	return r.expectOne(ctx, "rotate session", query, id, successorID)
}

// Revoke only touches sessions owned by userID, so another user's session
// id looks the same as an unknown one.
func (r *sessionStore) Revoke(ctx context.Context, userID, id string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE id = $1 AND user_id = $2 AND revoked_at IS NULL`

	return r.expectOne(ctx, "revoke session", query, id, userID)
}

func (r *sessionStore) RevokeFamily(ctx context.Context, familyID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE family_id = $1 AND revoked_at IS NULL`, familyID)
	if err != nil {
		return fmt.Errorf("revoke session family: %w", err)
	}

	return nil
}

func (r *sessionStore) RevokeAll(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke all sessions: %w", err)
	}

	return result.RowsAffected()
}

func (r *sessionStore) Active(ctx context.Context, userID string) ([]Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM refresh_tokens
		WHERE user_id = $1
			AND revoked_at IS NULL
			AND is_used = false
			AND expires_at > NOW()
		ORDER BY created_at DESC`

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("active sessions: %w", err)
	}

	return sessions, nil
}

func (r *sessionStore) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}

	return n, nil
}

func (r *sessionStore) expectOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
