// AngelaMos | 2026
// service_test.go

package card

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type memRepo struct {
	cards []Card
	draws map[string]Draw
}

func newMemRepo(cards ...Card) *memRepo {
	return &memRepo{cards: cards, draws: map[string]Draw{}}
}

func (m *memRepo) ListCards(context.Context) ([]Card, error) { return m.cards, nil }

func (m *memRepo) UpsertCards(_ context.Context, cards []Card) (int64, error) {
	m.cards = append(m.cards, cards...)
	return int64(len(cards)), nil
}

func (m *memRepo) GetDraw(_ context.Context, userID, day string) (*Draw, error) {
	d, ok := m.draws[userID+"/"+day]
	if !ok {
		return nil, fmt.Errorf("get draw: %w", core.ErrNotFound)
	}
	return &d, nil
}

func (m *memRepo) CreateDraw(_ context.Context, userID string, cardID int, day string) (bool, error) {
	key := userID + "/" + day
	if _, ok := m.draws[key]; ok {
		return false, nil
	}

	date, _ := time.Parse(dayLayout, day)
	var c Card
	for _, card := range m.cards {
		if card.ID == cardID {
			c = card
		}
	}
	m.draws[key] = Draw{ID: uuid.NewString(), UserID: userID, DrawDate: date, Card: c}
	return true, nil
}

func (m *memRepo) History(_ context.Context, userID string, _, _ int) ([]Draw, error) {
	out := []Draw{}
	for _, d := range m.draws {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func deck() []Card {
	return []Card{
		{ID: 1, Name: "Sun", Fortune: FortuneGreat, Weight: 1},
		{ID: 2, Name: "Rain", Fortune: FortuneBad, Weight: 3},
		{ID: 3, Name: "Void", Fortune: FortuneNeutral, Weight: 0},
	}
}

func TestPickIsWeighted(t *testing.T) {
	cards := deck()

	c, err := Pick(cards, func(int) int { return 0 })
	require.NoError(t, err)
	assert.Equal(t, "Sun", c.Name)

	for r := 1; r < 4; r++ {
		c, err = Pick(cards, func(int) int { return r })
		require.NoError(t, err)
		assert.Equal(t, "Rain", c.Name)
	}

	var total int
	_, _ = Pick(cards, func(n int) int { total = n; return 0 })
	assert.Equal(t, 4, total)

	_, err = Pick([]Card{{Name: "x", Weight: 0}}, func(int) int { return 0 })
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDrawOncePerDay(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	svc := NewService(newMemRepo(deck()...), shanghai)
	svc.pick = func(int) int { return 0 }

	// 17:30 UTC is already the next day in UTC+8.
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 17, 30, 0, 0, time.UTC) }
	assert.Equal(t, "2026-05-02", svc.Today())

	ctx := context.Background()

	first, err := svc.Draw(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, first.AlreadyDrawn)
	assert.Equal(t, "Sun", first.Draw.Card.Name)

	svc.pick = func(int) int { return 3 }
	second, err := svc.Draw(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, second.AlreadyDrawn)
	assert.Equal(t, first.Draw.ID, second.Draw.ID)
	assert.Equal(t, "Sun", second.Draw.Card.Name)

	svc.now = func() time.Time { return time.Date(2026, 5, 2, 17, 30, 0, 0, time.UTC) }
	third, err := svc.Draw(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, third.AlreadyDrawn)
	assert.Equal(t, "Rain", third.Draw.Card.Name)

	history, err := svc.History(ctx, "alice", 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSeedRejectsBadWeight(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	_, err := svc.Seed(context.Background(), []Card{{Name: "Moon", Weight: 0}})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	n, err := svc.Seed(context.Background(), []Card{{Name: "Moon", Fortune: FortuneGood, Weight: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
