// AngelaMos | 2026
// repository.go

package diary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Repository interface {
	Create(ctx context.Context, d *Diary, tags []string, media []Media) error
	Update(ctx context.Context, d *Diary, tags []string, media []Media) error
	Delete(ctx context.Context, id string) (int64, error)
	GetByID(ctx context.Context, id string) (*Diary, error)
	GetVisible(ctx context.Context, id, viewerID string) (*Diary, error)
	GetRow(ctx context.Context, id, viewerID string) (*Row, error)
	List(ctx context.Context, filter ListFilter) ([]Row, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository needs the pool itself because writes span several tables.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// visibleTo restricts d to rows the viewer bound at $1 may read. An empty
// viewer only sees public diaries.
const visibleTo = `(
	d.visibility = 'public'
	OR d.user_id = $1
	OR (d.visibility = 'followers' AND EXISTS(
		SELECT 1 FROM follows f
		WHERE f.follower_id = $1 AND f.following_id = d.user_id
		  AND f.status = 'active'
	))
)`

const rowColumns = `
	d.id, d.user_id, d.title, d.content, d.mood, d.weather, d.visibility,
	d.created_at, d.updated_at,
	u.username AS author_username, u.avatar_url AS author_avatar_url,
	(SELECT COUNT(*) FROM likes l WHERE l.diary_id = d.id) AS like_count,
	(SELECT COUNT(*) FROM comments c WHERE c.diary_id = d.id) AS comment_count,
	EXISTS(
		SELECT 1 FROM likes l WHERE l.diary_id = d.id AND l.user_id = $1
	) AS liked_by_me`

func (r *repository) Create(
	ctx context.Context,
	d *Diary,
	tags []string,
	media []Media,
) error {
	query := `
		INSERT INTO diaries (user_id, title, content, mood, weather, visibility)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			d.UserID,
			d.Title,
			d.Content,
			d.Mood,
			d.Weather,
			d.Visibility,
		).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			if core.IsForeignKeyViolation(err) {
				return fmt.Errorf("create diary: %w", core.ErrNotFound)
			}
			return fmt.Errorf("create diary: %w", err)
		}

		if err := insertTags(ctx, tx, d.ID, tags); err != nil {
			return err
		}
		return insertMedia(ctx, tx, d.ID, media)
	})
}

// Update rewrites the diary columns. A nil tags or media slice leaves that
// collection untouched; an empty one clears it.
func (r *repository) Update(
	ctx context.Context,
	d *Diary,
	tags []string,
	media []Media,
) error {
	query := `
		UPDATE diaries
		SET title = $2, content = $3, mood = $4, weather = $5,
		    visibility = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &d.UpdatedAt, query,
			d.ID,
			d.Title,
			d.Content,
			d.Mood,
			d.Weather,
			d.Visibility,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update diary: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update diary: %w", err)
		}

		if tags != nil {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM diary_tags WHERE diary_id = $1`, d.ID); err != nil {
				return fmt.Errorf("clear diary tags: %w", err)
			}
			if err := insertTags(ctx, tx, d.ID, tags); err != nil {
				return err
			}
		}

		if media != nil {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM diary_media WHERE diary_id = $1`, d.ID); err != nil {
				return fmt.Errorf("clear diary media: %w", err)
			}
			if err := insertMedia(ctx, tx, d.ID, media); err != nil {
				return err
			}
		}

		return nil
	})
}

func insertTags(ctx context.Context, tx *sqlx.Tx, diaryID string, tags []string) error {
	for _, tag := range tags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diary_tags (diary_id, tag) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, diaryID, tag)
		if err != nil {
			return fmt.Errorf("insert diary tag: %w", err)
		}
	}
	return nil
}

func insertMedia(ctx context.Context, tx *sqlx.Tx, diaryID string, media []Media) error {
	for i := range media {
		media[i].DiaryID = diaryID
		media[i].Position = i

		err := tx.QueryRowxContext(ctx, `
			INSERT INTO diary_media (diary_id, url, media_type, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			diaryID, media[i].URL, media[i].MediaType, i,
		).Scan(&media[i].ID)
		if err != nil {
			return fmt.Errorf("insert diary media: %w", err)
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM diaries WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete diary: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete diary: %w", err)
	}

	return rows, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Diary, error) {
	query := `
		SELECT id, user_id, title, content, mood, weather, visibility,
		       created_at, updated_at
		FROM diaries
		WHERE id = $1`

	var d Diary
	err := r.db.GetContext(ctx, &d, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get diary: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get diary: %w", err)
	}

	return &d, nil
}

// GetVisible returns the diary only when viewerID may read it; hidden
// diaries are reported as missing.
func (r *repository) GetVisible(
	ctx context.Context,
	id, viewerID string,
) (*Diary, error) {
	query := `
		SELECT d.id, d.user_id, d.title, d.content, d.mood, d.weather,
		       d.visibility, d.created_at, d.updated_at
		FROM diaries d
		WHERE ` + visibleTo + ` AND d.id = $2`

	var d Diary
	err := r.db.GetContext(ctx, &d, query, viewerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get diary: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get diary: %w", err)
	}

	return &d, nil
}

func (r *repository) GetRow(
	ctx context.Context,
	id, viewerID string,
) (*Row, error) {
	query := `
		SELECT ` + rowColumns + `
		FROM diaries d
		JOIN users u ON u.id = d.user_id
		WHERE ` + visibleTo + ` AND d.id = $2`

	var row Row
	err := r.db.GetContext(ctx, &row, query, viewerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get diary: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get diary: %w", err)
	}

	rows := []Row{row}
	if err := r.attach(ctx, rows); err != nil {
		return nil, err
	}

	return &rows[0], nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Row, error) {
	args := []any{filter.ViewerID}
	argIdx := 2

	conditions := []string{"u.status = 'active'"}

	switch filter.Scope {
	case ScopePublic:
		conditions = append(conditions, "d.visibility = 'public'")
	case ScopeAuthor:
		conditions = append(conditions, visibleTo,
			fmt.Sprintf("d.user_id = $%d", argIdx))
		args = append(args, filter.AuthorID)
		argIdx++
	case ScopeFeed:
		conditions = append(conditions, visibleTo, `
			d.user_id IN (
				SELECT following_id FROM follows
				WHERE follower_id = $1 AND status = 'active'
			)`)
	}

	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS(SELECT 1 FROM diary_tags t WHERE t.diary_id = d.id AND t.tag = $%d)",
			argIdx))
		args = append(args, filter.Tag)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM diaries d
		JOIN users u ON u.id = d.user_id
		WHERE %s
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT $%d OFFSET $%d`,
		rowColumns, strings.Join(conditions, " AND "), argIdx, argIdx+1)

	args = append(args, filter.Limit, filter.Offset)

	rows := []Row{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list diaries: %w", err)
	}

	if err := r.attach(ctx, rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// attach loads tags and media for every row in two queries.
func (r *repository) attach(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]string, len(rows))
	index := make(map[string]int, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
		index[rows[i].ID] = i
		rows[i].Tags = []string{}
		rows[i].Media = []Media{}
	}

	var tags []struct {
		DiaryID string `db:"diary_id"`
		Tag     string `db:"tag"`
	}
	err := r.db.SelectContext(ctx, &tags, `
		SELECT diary_id, tag FROM diary_tags
		WHERE diary_id = ANY($1::text[]::uuid[])
		ORDER BY tag`, ids)
	if err != nil {
		return fmt.Errorf("load diary tags: %w", err)
	}
	for _, t := range tags {
		i := index[t.DiaryID]
		rows[i].Tags = append(rows[i].Tags, t.Tag)
	}

	var media []Media
	err = r.db.SelectContext(ctx, &media, `
		SELECT id, diary_id, url, media_type, position FROM diary_media
		WHERE diary_id = ANY($1::text[]::uuid[])
		ORDER BY position`, ids)
	if err != nil {
		return fmt.Errorf("load diary media: %w", err)
	}
	for _, m := range media {
		i := index[m.DiaryID]
		rows[i].Media = append(rows[i].Media, m)
	}

	return nil
}
