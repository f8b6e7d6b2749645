// AngelaMos | 2026
// handler.go

package follow

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/middleware"
)

const msgAlreadyFollowing = "Already following this user"

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
	r.Route("/followers", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListFollowing)
		r.Post("/", h.Follow)
		r.Get("/status/{userID}", h.Status)
		r.Get("/{userID}/following", h.ListUserFollowing)
		r.Get("/{userID}/followers", h.ListUserFollowers)
		r.Get("/{userID}/counts", h.Counts)
		r.Delete("/{followingID}", h.Unfollow)
	})
}

func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	conns, err := h.service.Following(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(conns))
}

func (h *Handler) ListUserFollowing(w http.ResponseWriter, r *http.Request) {
	conns, err := h.service.Following(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(conns))
}

func (h *Handler) ListUserFollowers(w http.ResponseWriter, r *http.Request) {
	conns, err := h.service.Followers(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(conns))
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	result, err := h.service.Follow(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.Target(),
	)
	if err != nil {
		writeFollowError(w, err)
		return
	}

	core.Created(w, FollowResponse{
		FollowID: result.FollowID,
		IsMutual: result.IsMutual,
		Message:  "Followed successfully",
	})
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	err := h.service.Unfollow(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "followingID"),
	)
	if err != nil {
		writeFollowError(w, err)
		return
	}

	core.Message(w, "Unfollowed successfully")
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	rel, err := h.service.Relation(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		writeFollowError(w, err)
		return
	}

	core.OK(w, ToStatusResponse(rel))
}

func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Counts(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, counts)
}

func writeFollowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingTarget):
		core.BadRequest(w, "following_id is required")
	case errors.Is(err, ErrSelfFollow):
		core.BadRequest(w, "Cannot follow yourself")
	case errors.Is(err, core.ErrDuplicateKey):
		core.BadRequest(w, msgAlreadyFollowing)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	default:
		core.InternalServerError(w, err)
	}
}
