// AngelaMos | 2026
// core_test.go

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
)

func TestLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultPageLimit, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=500", MaxPageLimit, 0},
		{"?limit=0&offset=-3", DefaultPageLimit, 0},
		{"?limit=abc&offset=xyz", DefaultPageLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)
			limit, offset := LimitOffset(r)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(config.IDConfig{Node: 7, Epoch: "2024-01-01"})
	require.NoError(t, err)

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id := gen.NewID()
		assert.LessOrEqual(t, len(id), 11)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestIDGeneratorRejectsBadConfig(t *testing.T) {
	_, err := NewIDGenerator(config.IDConfig{Node: 4096})
	assert.Error(t, err)

	_, err = NewIDGenerator(config.IDConfig{Node: 1, Epoch: "yesterday"})
	assert.Error(t, err)
}

func TestJSONErrorRendersAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "diary")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "diary not found", body.Message)
	assert.Equal(t, CodeNotFound, body.Error)
}

func TestJSONErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, fmt.Errorf("query: %w", errors.New("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{"a", "b"}, 2, 2, 5)

	var body PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TotalPages)
	assert.Equal(t, 5, body.Total)
}

func TestMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, "Unfollowed")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Unfollowed"}`, rec.Body.String())
}

func TestCounterCacheWithoutClientMisses(t *testing.T) {
	cache := NewCounterCache(nil, "unread:", 0)
	ctx := context.Background()

	version, ok := cache.Version(ctx, "u1")
	assert.False(t, ok)
	require.NoError(t, cache.Fill(ctx, "u1", version, 3))
	_, ok = cache.Get(ctx, "u1")
	assert.False(t, ok)
	assert.NoError(t, cache.Invalidate(ctx, "u1"))
}

func TestFormatValidationError(t *testing.T) {
	type req struct {
		Username string `json:"username" validate:"required,username"`
	}

	err := NewValidator().Struct(req{Username: "bad name!"})
	require.Error(t, err)
	assert.Contains(t, FormatValidationError(err), "username")

	assert.NoError(t, NewValidator().Struct(req{Username: "good_name1"}))
}

func TestPathUUID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/diaries/{diaryID}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := PathUUID(w, r, "diaryID", "diary")
		if !ok {
			return
		}
		Message(w, id)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/diaries/7F0C6B8E-2D4A-4C1E-9B7A-3E5F1A2B4C6D", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "7f0c6b8e-2d4a-4c1e-9b7a-3e5f1a2b4c6d")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/diaries/d1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "diary not found")
}
