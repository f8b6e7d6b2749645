// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/middleware"
)

const defaultRetention = 90 * 24 * time.Hour

type UserCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type NotificationPurger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

// ContentRemover deletes one item on behalf of a moderator.
type ContentRemover interface {
	Delete(ctx context.Context, id, userID string, asAdmin bool) error
}

type HandlerConfig struct {
	DBStats       func() sql.DBStats
	DBPing        func(ctx context.Context) error
	RedisStats    func() *redis.PoolStats
	RedisPing     func(ctx context.Context) error
	Users         UserCounter
	Notifications NotificationPurger
	Diaries       ContentRemover
	Comments      ContentRemover
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Get("/stats/users", h.GetUserStats)

		r.Delete("/diaries/{diaryID}", h.removeContent(h.cfg.Diaries, "diaryID", "diary"))
		r.Delete("/comments/{commentID}", h.removeContent(h.cfg.Comments, "commentID", "comment"))

		r.Post("/notifications/purge", h.PurgeNotifications)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	core.OK(w, SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: pingOK(ctx, h.cfg.DBPing),
			Stats:   h.dbStats(),
		},
		Redis: RedisStatus{
			Healthy: pingOK(ctx, h.cfg.RedisPing),
			Stats:   h.redisStats(),
		},
		Runtime: readRuntime(),
	})
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntime())
}

func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.cfg.Users.CountByStatus(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := UserStatsResponse{ByStatus: counts}
	for _, n := range counts {
		resp.Total += n
	}

	core.OK(w, resp)
}

// PurgeNotifications deletes read notifications older than ?older_than=,
// a Go duration such as 720h.
func (h *Handler) PurgeNotifications(w http.ResponseWriter, r *http.Request) {
	retention := defaultRetention
	if raw := r.URL.Query().Get("older_than"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			core.BadRequest(w, "older_than must be a positive duration")
			return
		}
		retention = d
	}

	n, err := h.cfg.Notifications.PurgeRead(r.Context(), retention)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PurgeResponse{Deleted: n, OlderThan: retention.String()})
}

func (h *Handler) removeContent(remover ContentRemover, param, resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := core.PathUUID(w, r, param, resource)
		if !ok {
			return
		}

		err := remover.Delete(
			r.Context(),
			id,
			middleware.GetUserID(r.Context()),
			true,
		)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				core.NotFound(w, resource)
				return
			}
			core.InternalServerError(w, err)
			return
		}

		core.Message(w, resource+" removed")
	}
}

func pingOK(ctx context.Context, ping func(ctx context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}

func (h *Handler) dbStats() *DBPoolStats {
	if h.cfg.DBStats == nil {
		return nil
	}

	stats := h.cfg.DBStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) redisStats() *RedisPoolStats {
	if h.cfg.RedisStats == nil {
		return nil
	}

	stats := h.cfg.RedisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
