// AngelaMos | 2026
// repository.go

package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Repository interface {
	ListCards(ctx context.Context) ([]Card, error)
	UpsertCards(ctx context.Context, cards []Card) (int64, error)
	GetDraw(ctx context.Context, userID, day string) (*Draw, error)
	CreateDraw(ctx context.Context, userID string, cardID int, day string) (bool, error)
	History(ctx context.Context, userID string, limit, offset int) ([]Draw, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const drawColumns = `
	d.id, d.user_id, d.draw_date, d.created_at,
	c.id AS "card.id", c.name AS "card.name", c.fortune AS "card.fortune",
	c.message AS "card.message", c.image_url AS "card.image_url",
	c.weight AS "card.weight"`

func (r *repository) ListCards(ctx context.Context) ([]Card, error) {
	query := `
		SELECT id, name, fortune, message, image_url, weight
		FROM cards
		ORDER BY id`

	cards := []Card{}
	if err := r.db.SelectContext(ctx, &cards, query); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	return cards, nil
}

// UpsertCards inserts or refreshes cards by name.
func (r *repository) UpsertCards(ctx context.Context, cards []Card) (int64, error) {
	query := `
		INSERT INTO cards (name, fortune, message, image_url, weight)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET fortune = EXCLUDED.fortune, message = EXCLUDED.message,
		    image_url = EXCLUDED.image_url, weight = EXCLUDED.weight`

	var total int64
	for _, c := range cards {
		result, err := r.db.ExecContext(ctx, query,
			c.Name, c.Fortune, c.Message, c.ImageURL, c.Weight)
		if err != nil {
			return total, fmt.Errorf("upsert card %s: %w", c.Name, err)
		}
		n, _ := result.RowsAffected() //nolint:errcheck // pgx always reports rows
		total += n
	}

	return total, nil
}

func (r *repository) GetDraw(ctx context.Context, userID, day string) (*Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM card_draws d
		JOIN cards c ON c.id = d.card_id
		WHERE d.user_id = $1 AND d.draw_date = $2::date`

	var d Draw
	err := r.db.GetContext(ctx, &d, query, userID, day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get draw: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get draw: %w", err)
	}

	return &d, nil
}

// CreateDraw reports false when the user already has a draw for day.
func (r *repository) CreateDraw(
	ctx context.Context,
	userID string,
	cardID int,
	day string,
) (bool, error) {
	query := `
		INSERT INTO card_draws (user_id, card_id, draw_date)
		VALUES ($1, $2, $3::date)
		ON CONFLICT ON CONSTRAINT uq_card_draws_day DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, cardID, day)
	if err != nil {
		return false, fmt.Errorf("create draw: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create draw: %w", err)
	}

	return n > 0, nil
}

func (r *repository) History(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM card_draws d
		JOIN cards c ON c.id = d.card_id
		WHERE d.user_id = $1
		ORDER BY d.draw_date DESC
		LIMIT $2 OFFSET $3`

	draws := []Draw{}
	if err := r.db.SelectContext(ctx, &draws, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("draw history: %w", err)
	}

	return draws, nil
}
