// AngelaMos | 2026
// handler.go

package announcement

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

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/announcements", h.ListPublished)
	r.Get("/announcements/{announcementID}", h.GetPublished)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/announcements", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListAll)
		r.Post("/", h.Create)
		r.Put("/{announcementID}", h.Update)
		r.Delete("/{announcementID}", h.Delete)
	})
}

func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	limit, offset := core.LimitOffset(r)

	items, err := h.service.ListPublished(r.Context(), limit, offset)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(items, limit, offset))
}

func (h *Handler) GetPublished(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "announcementID", "announcement")
	if !ok {
		return
	}

	a, err := h.service.GetPublished(r.Context(), id)
	if err != nil {
		writeAnnouncementError(w, err)
		return
	}

	core.OK(w, ToResponse(a))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := core.LimitOffset(r)

	items, err := h.service.ListAll(r.Context(), limit, offset)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(items, limit, offset))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeAnnouncementError(w, err)
		return
	}

	core.Created(w, ToResponse(a))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "announcementID", "announcement")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeAnnouncementError(w, err)
		return
	}

	core.OK(w, ToResponse(a))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "announcementID", "announcement")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeAnnouncementError(w, err)
		return
	}

	core.Message(w, "Announcement deleted")
}

func writeAnnouncementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "announcement")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "title and content must not be empty")
	default:
		core.InternalServerError(w, err)
	}
}
