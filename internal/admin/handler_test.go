// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

const testDiaryID = "7f0c6b8e-2d4a-4c1e-9b7a-3e5f1a2b4c6d"

type counter map[string]int

func (c counter) CountByStatus(context.Context) (map[string]int, error) { return c, nil }

type purger struct{ got time.Duration }

func (p *purger) PurgeRead(_ context.Context, retention time.Duration) (int64, error) {
	p.got = retention
	return 7, nil
}

type remover struct {
	asAdmin bool
	known   string
}

func (r *remover) Delete(_ context.Context, id, _ string, asAdmin bool) error {
	r.asAdmin = asAdmin
	if id != r.known {
		return fmt.Errorf("delete: %w", core.ErrNotFound)
	}
	return nil
}

func newRouter(h *Handler) *chi.Mux {
	pass := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	h.RegisterRoutes(r, pass, pass)
	return r
}

func TestUserStats(t *testing.T) {
	r := newRouter(NewHandler(HandlerConfig{
		Users: counter{"active": 5, "suspended": 1},
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Total)
	assert.Equal(t, 1, resp.ByStatus["suspended"])
}

func TestPurgeNotifications(t *testing.T) {
	p := &purger{}
	r := newRouter(NewHandler(HandlerConfig{Notifications: p}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/notifications/purge?older_than=48h", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 48*time.Hour, p.got)
	assert.JSONEq(t, `{"deleted":7,"older_than":"48h0m0s"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/notifications/purge?older_than=soon", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/notifications/purge", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultRetention, p.got)
}

func TestRemoveContent(t *testing.T) {
	diaries := &remover{known: testDiaryID}
	r := newRouter(NewHandler(HandlerConfig{Diaries: diaries, Comments: &remover{}}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/diaries/"+testDiaryID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, diaries.asAdmin)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/comments/c9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRuntimeStats(t *testing.T) {
	r := newRouter(NewHandler(HandlerConfig{}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Database.Healthy)
	assert.NotEmpty(t, resp.Runtime.GoVersion)
}
