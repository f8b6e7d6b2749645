// AngelaMos | 2026
// dto.go

package card

import (
	"time"
)

type CardResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Fortune  string `json:"fortune"`
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

type DrawResponse struct {
	ID           string       `json:"id"`
	DrawDate     string       `json:"draw_date"`
	Card         CardResponse `json:"card"`
	AlreadyDrawn bool         `json:"already_drawn"`
	CreatedAt    time.Time    `json:"created_at"`
}

type DeckResponse struct {
	Cards []CardResponse `json:"cards"`
}

type HistoryResponse struct {
	Draws  []DrawResponse `json:"draws"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func ToCardResponse(c *Card) CardResponse {
	return CardResponse{
		ID:       c.ID,
		Name:     c.Name,
		Fortune:  c.Fortune,
		Message:  c.Message,
		ImageURL: c.ImageURL,
	}
}

func ToDrawResponse(d *Draw, alreadyDrawn bool) DrawResponse {
	return DrawResponse{
		ID:           d.ID,
		DrawDate:     d.DrawDate.Format(dayLayout),
		Card:         ToCardResponse(&d.Card),
		AlreadyDrawn: alreadyDrawn,
		CreatedAt:    d.CreatedAt,
	}
}
