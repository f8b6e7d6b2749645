// AngelaMos | 2026
// handler_test.go

package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/middleware"
)

func asUser(id string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: id,
				Role:   "member",
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(svc *Service, userID string) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, asUser(userID))
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, out any) int {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestNotificationEndpoints(t *testing.T) {
	svc := NewService(newMemRepo(), nil, quietLogger())
	router := newTestRouter(svc, "bob")

	id, err := svc.Create(context.Background(), Params{
		RecipientID: "bob", Type: TypeFollow, Title: "New follower",
	})
	require.NoError(t, err)

	var list ListResponse
	code := doJSON(t, router, http.MethodGet, "/notifications?limit=5&offset=0", &list)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, list.Notifications, 1)
	assert.Equal(t, 1, list.UnreadCount)
	assert.Equal(t, 5, list.Limit)

	var unread UnreadCountResponse
	code = doJSON(t, router, http.MethodGet, "/notifications/unread-count", &unread)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, unread.UnreadCount)

	code = doJSON(t, router, http.MethodPut, "/notifications/"+id+"/read", nil)
	assert.Equal(t, http.StatusOK, code)

	var updated UpdatedResponse
	code = doJSON(t, router, http.MethodPut, "/notifications/read-all", &updated)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(0), updated.Updated)

	code = doJSON(t, router, http.MethodDelete, "/notifications/"+id, nil)
	assert.Equal(t, http.StatusOK, code)

	code = doJSON(t, router, http.MethodDelete, "/notifications/"+id, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestNotificationEndpointsRejectMalformedID(t *testing.T) {
	router := newTestRouter(NewService(newMemRepo(), nil, quietLogger()), "bob")

	var body map[string]string
	code := doJSON(t, router, http.MethodPut, "/notifications/not-a-uuid/read", &body)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid notification id", body["message"])
}

func TestNotificationsAreScopedToCaller(t *testing.T) {
	svc := NewService(newMemRepo(), nil, quietLogger())

	id, err := svc.Create(context.Background(), Params{
		RecipientID: "bob", Type: TypeLike, Title: "like",
	})
	require.NoError(t, err)

	mallory := newTestRouter(svc, "mallory")
	doJSON(t, mallory, http.MethodPut, "/notifications/"+id+"/read", nil)

	n, err := svc.UnreadCount(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListClampsPaging(t *testing.T) {
	router := newTestRouter(NewService(newMemRepo(), nil, quietLogger()), "bob")

	var list ListResponse
	code := doJSON(t, router, http.MethodGet, "/notifications?limit=500&offset=-3", &list)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, core.MaxPageLimit, list.Limit)
	assert.Equal(t, 0, list.Offset)
	assert.Empty(t, list.Notifications)

	code = doJSON(t, router, http.MethodGet, "/notifications?limit=abc", &list)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, core.DefaultPageLimit, list.Limit)
}
