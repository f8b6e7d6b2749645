// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func readyz(t *testing.T, h *Handler) (int, ReadinessResponse) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestReadiness(t *testing.T) {
	down := pinger{err: errors.New("connection refused")}

	tests := []struct {
		name       string
		db, cache  Checker
		wantCode   int
		wantStatus string
	}{
		{"all healthy", pinger{}, pinger{}, http.StatusOK, StatusOK},
		{"optional cache down", pinger{}, down, http.StatusOK, StatusDegraded},
		{"database down", down, pinger{}, http.StatusServiceUnavailable, StatusUnavailable},
		{"database missing", nil, pinger{}, http.StatusServiceUnavailable, StatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(
				Dependency{Name: "database", Checker: tt.db},
				Dependency{Name: "redis", Checker: tt.cache, Optional: true},
			)

			code, body := readyz(t, h)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			require.Len(t, body.Checks, 2)
			assert.Equal(t, "database", body.Checks[0].Name)
			assert.Equal(t, "redis", body.Checks[1].Name)
		})
	}
}

func TestShutdownFailsProbes(t *testing.T) {
	h := NewHandler(Dependency{Name: "database", Checker: pinger{}})
	h.SetShutdown(true)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), StatusShuttingDown, path)
		assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	}
}
