// AngelaMos | 2026
// handler.go

package like

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
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/diaries/{diaryID}/like", h.Like)
		r.Delete("/diaries/{diaryID}/like", h.Unlike)
	})
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "diaryID", "diary")
	if !ok {
		return
	}

	state, err := h.service.Like(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeLikeError(w, err)
		return
	}

	core.OK(w, state)
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "diaryID", "diary")
	if !ok {
		return
	}

	state, err := h.service.Unlike(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeLikeError(w, err)
		return
	}

	core.OK(w, state)
}

func writeLikeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "diary")
		return
	}
	core.InternalServerError(w, err)
}
