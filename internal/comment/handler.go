// AngelaMos | 2026
// handler.go

package comment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.With(optionalAuth).Get("/diaries/{diaryID}/comments", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/diaries/{diaryID}/comments", h.Create)
		r.Delete("/comments/{commentID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	diaryID, ok := core.PathUUID(w, r, "diaryID", "diary")
	if !ok {
		return
	}

	views, err := h.service.List(
		r.Context(),
		diaryID,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeCommentError(w, err)
		return
	}

	core.OK(w, ToListResponse(views))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	diaryID, ok := core.PathUUID(w, r, "diaryID", "diary")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Create(
		r.Context(),
		diaryID,
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		writeCommentError(w, err)
		return
	}

	core.Created(w, ToCommentResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := core.PathUUID(w, r, "commentID", "comment")
	if !ok {
		return
	}

	err := h.service.Delete(
		r.Context(),
		commentID,
		middleware.GetUserID(r.Context()),
		middleware.IsAdmin(r.Context()),
	)
	if err != nil {
		writeCommentError(w, err)
		return
	}

	core.Message(w, "Comment deleted")
}

func writeCommentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "diary or comment")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "cannot delete this comment")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid comment")
	default:
		core.InternalServerError(w, err)
	}
}
