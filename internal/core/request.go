// AngelaMos | 2026
// request.go

package core

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// LimitOffset reads ?limit= and ?offset=, falling back to defaults for
// missing or malformed values and capping limit at MaxPageLimit.
func LimitOffset(r *http.Request) (limit, offset int) {
	limit = queryInt(r, "limit", DefaultPageLimit)
	offset = queryInt(r, "offset", 0)

	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// PathUUID reads a UUID path parameter. A malformed value is answered with
// a 404 for resource, the same as a missing row.
func PathUUID(w http.ResponseWriter, r *http.Request, param, resource string) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		NotFound(w, resource)
		return "", false
	}
	return id.String(), true
}
