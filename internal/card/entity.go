// AngelaMos | 2026
// entity.go

package card

import (
	"time"
)

const (
	FortuneGreat   = "great"
	FortuneGood    = "good"
	FortuneNeutral = "neutral"
	FortuneBad     = "bad"
)

type Card struct {
	ID       int    `db:"id"`
	Name     string `db:"name"`
	Fortune  string `db:"fortune"`
	Message  string `db:"message"`
	ImageURL string `db:"image_url"`
	Weight   int    `db:"weight"`
}

// Draw is one user's card for one calendar day.
type Draw struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	DrawDate  time.Time `db:"draw_date"`
	CreatedAt time.Time `db:"created_at"`
	Card      Card      `db:"card"`
}
