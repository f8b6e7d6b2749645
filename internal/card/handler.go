// AngelaMos | 2026
// handler.go

package card

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/cards", func(r chi.Router) {
		r.Get("/", h.Deck)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/draw", h.Draw)
			r.Get("/history", h.History)
		})
	})
}

func (h *Handler) Deck(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.Cards(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := DeckResponse{Cards: make([]CardResponse, 0, len(cards))}
	for i := range cards {
		resp.Cards = append(resp.Cards, ToCardResponse(&cards[i]))
	}

	core.OK(w, resp)
}

func (h *Handler) Draw(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Draw(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "card deck")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := ToDrawResponse(result.Draw, result.AlreadyDrawn)
	if result.AlreadyDrawn {
		core.OK(w, resp)
		return
	}
	core.Created(w, resp)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, offset := core.LimitOffset(r)

	draws, err := h.service.History(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := HistoryResponse{
		Draws:  make([]DrawResponse, 0, len(draws)),
		Limit:  limit,
		Offset: offset,
	}
	for i := range draws {
		resp.Draws = append(resp.Draws, ToDrawResponse(&draws[i], true))
	}

	core.OK(w, resp)
}
