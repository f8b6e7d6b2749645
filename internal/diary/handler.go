// AngelaMos | 2026
// handler.go

package diary

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
	r.Route("/diaries", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)

			r.Get("/", h.ListPublic)
			r.Get("/user/{userID}", h.ListByAuthor)
			r.Get("/{diaryID}", h.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/feed", h.Feed)
			r.Post("/", h.Create)
			r.Put("/{diaryID}", h.Update)
			r.Delete("/{diaryID}", h.Delete)
		})
	})
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit, offset := core.LimitOffset(r)

	rows, err := h.service.ListPublic(
		r.Context(),
		middleware.GetUserID(r.Context()),
		r.URL.Query().Get("tag"),
		limit,
		offset,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(rows, limit, offset))
}

func (h *Handler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	limit, offset := core.LimitOffset(r)

	rows, err := h.service.ListByAuthor(
		r.Context(),
		chi.URLParam(r, "userID"),
		middleware.GetUserID(r.Context()),
		limit,
		offset,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(rows, limit, offset))
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	limit, offset := core.LimitOffset(r)

	rows, err := h.service.Feed(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		writeDiaryError(w, err)
		return
	}

	core.OK(w, ToListResponse(rows, limit, offset))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "diaryID", "diary")
	if !ok {
		return
	}

	row, err := h.service.Get(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeDiaryError(w, err)
		return
	}

	core.OK(w, ToDiaryResponse(row))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	row, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeDiaryError(w, err)
		return
	}

	core.Created(w, ToDiaryResponse(row))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "diaryID", "diary")
	if !ok {
		return
	}

	var req UpdateDiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	row, err := h.service.Update(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		writeDiaryError(w, err)
		return
	}

	core.OK(w, ToDiaryResponse(row))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "diaryID", "diary")
	if !ok {
		return
	}

	err := h.service.Delete(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
		middleware.IsAdmin(r.Context()),
	)
	if err != nil {
		writeDiaryError(w, err)
		return
	}

	core.Message(w, "Diary deleted")
}

func writeDiaryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "diary")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "not the author of this diary")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "title and content must not be empty")
	default:
		core.InternalServerError(w, err)
	}
}
