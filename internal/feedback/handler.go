// AngelaMos | 2026
// handler.go

package feedback

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
	r.Route("/feedback", func(r chi.Router) {
		r.With(optionalAuth).Post("/", h.Submit)
		r.With(authenticator).Get("/mine", h.ListMine)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/feedback", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Put("/{feedbackID}", h.Reply)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	f, err := h.service.Submit(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeFeedbackError(w, err)
		return
	}

	core.Created(w, ToResponse(f))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	limit, offset := core.LimitOffset(r)

	items, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		writeFeedbackError(w, err)
		return
	}

	core.OK(w, ListResponse{Feedback: ToResponses(items), Limit: limit, Offset: offset})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := core.LimitOffset(r)

	items, total, err := h.service.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeFeedbackError(w, err)
		return
	}

	page := offset/limit + 1
	core.Paginated(w, ToResponses(items), page, limit, total)
}

func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "feedbackID", "feedback")
	if !ok {
		return
	}

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	f, err := h.service.Reply(r.Context(), id, req)
	if err != nil {
		writeFeedbackError(w, err)
		return
	}

	core.OK(w, ToResponse(f))
}

func writeFeedbackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "feedback")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid feedback")
	default:
		core.InternalServerError(w, err)
	}
}
