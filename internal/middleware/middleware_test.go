// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"/api/followers":                                       "/api/followers",
		"/api/followers/status/4fZq8rKx1M":                     "/api/followers/status/{id}",
		"/api/notifications/3f0b7a52-8a8e-4b8e-9a43-9d0c2ad8f1e1/read": "/api/notifications/{id}/read",
		"/api/cards/42":                                        "/api/cards/{id}",
		"/api/users/search":                                    "/api/users/search",
	}

	for in, want := range tests {
		assert.Equal(t, want, normalizeEndpoint(in), in)
	}
}

func TestKeyByIPPrefersLastForwardedHop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 192.168.1.9")

	assert.Equal(t, "ratelimit:ip:192.168.1.9", KeyByIP(req))
}

func TestLocalLimiterBlocksAfterBurst(t *testing.T) {
	l := &localLimiter{}
	limit := PerMinute(1, 2)

	first, err := l.allow("k", limit)
	assert.NoError(t, err)
	second, _ := l.allow("k", limit)
	third, _ := l.allow("k", limit)

	assert.Equal(t, 1, first.Allowed)
	assert.Equal(t, 1, second.Allowed)
	assert.Equal(t, 0, third.Allowed)
	assert.Positive(t, third.RetryAfter)
}

func TestByRoleSeparatesReadsAndWrites(t *testing.T) {
	policy := ByRole(DefaultRoleLimits)

	get := httptest.NewRequest(http.MethodGet, "/api/followers/4fZq8rKx1M/counts", nil)
	post := httptest.NewRequest(http.MethodPost, "/api/followers", nil)
	post.RemoteAddr = get.RemoteAddr

	readKey, readLimit := policy(get)
	writeKey, writeLimit := policy(post)

	assert.Contains(t, readKey, ":read:/api/followers/{id}/counts")
	assert.Contains(t, writeKey, ":write:/api/followers")
	assert.Equal(t, DefaultRoleLimits[roleAnonymous].Read, readLimit)
	assert.Equal(t, DefaultRoleLimits[roleAnonymous].Write, writeLimit)
}

func TestRateLimiterWithoutRedisLimitsLocally(t *testing.T) {
	rl := NewRateLimiter(nil, ByIP(Limit(1, 1, time.Hour)), false)
	h := rl.Handler(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
	})

	t.Run("rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>"+strings.Repeat("x", 80))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.NotContains(t, seen, "<")
		assert.Len(t, seen, 36)
	})
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	SecurityHeaders(false)(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestCORS(t *testing.T) {
	cfg := config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	h := CORS(cfg)(http.HandlerFunc(okHandler))

	t.Run("preflight allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/followers", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight from unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/followers", nil)
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request without origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Vary"))
	})
}
