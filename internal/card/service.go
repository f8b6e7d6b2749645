// AngelaMos | 2026
// service.go

package card

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

const dayLayout = "2006-01-02"

type Result struct {
	Draw         *Draw
	AlreadyDrawn bool
}

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
	pick func(n int) int
}

// NewService draws days in loc, so "today" follows the configured
// timezone rather than the server's.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
		pick: rand.IntN,
	}
}

func (s *Service) Cards(ctx context.Context) ([]Card, error) {
	return s.repo.ListCards(ctx)
}

// Today is the calendar day the next draw belongs to.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(dayLayout)
}

// Draw returns the user's card for today, drawing one if needed. A
// second call on the same day returns the first card.
func (s *Service) Draw(ctx context.Context, userID string) (*Result, error) {
	day := s.Today()

	existing, err := s.repo.GetDraw(ctx, userID, day)
	if err == nil {
		return &Result{Draw: existing, AlreadyDrawn: true}, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	cards, err := s.repo.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	chosen, err := Pick(cards, s.pick)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateDraw(ctx, userID, chosen.ID, day)
	if err != nil {
		return nil, err
	}

	d, err := s.repo.GetDraw(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	return &Result{Draw: d, AlreadyDrawn: !created}, nil
}

func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]Draw, error) {
	return s.repo.History(ctx, userID, limit, offset)
}

func (s *Service) Seed(ctx context.Context, cards []Card) (int64, error) {
	for _, c := range cards {
		if c.Weight <= 0 || c.Name == "" {
			return 0, fmt.Errorf("card %q: %w", c.Name, core.ErrInvalidInput)
		}
	}
	return s.repo.UpsertCards(ctx, cards)
}

// Pick chooses a card with probability proportional to its weight. intn
// must return a value in [0, n).
func Pick(cards []Card, intn func(n int) int) (*Card, error) {
	total := 0
	for _, c := range cards {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("no drawable cards: %w", core.ErrNotFound)
	}

	r := intn(total)
	for i := range cards {
		if cards[i].Weight <= 0 {
			continue
		}
		if r < cards[i].Weight {
			return &cards[i], nil
		}
		r -= cards[i].Weight
	}

	return &cards[len(cards)-1], nil
}
