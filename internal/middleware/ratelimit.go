// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

const roleAnonymous = "anonymous"

// Policy picks the bucket and budget for a request.
type Policy func(r *http.Request) (key string, limit redis_rate.Limit)

// RateLimiter counts in Redis and falls back to an in-process token bucket
// per instance while Redis is unreachable.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	fallback *localLimiter
	policy   Policy
	failOpen bool
}

// NewRateLimiter with a nil client limits locally only.
func NewRateLimiter(rdb *redis.Client, policy Policy, failOpen bool) *RateLimiter {
	rl := &RateLimiter{
		fallback: newLocalLimiter(),
		policy:   policy,
		failOpen: failOpen,
	}
	if rdb != nil {
		rl.redis = redis_rate.NewLimiter(rdb)
	}
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, limit := rl.policy(r)

		res, err := rl.allow(r.Context(), key, limit)
		if err != nil {
			if rl.failOpen {
				slog.Warn("rate limiter error, failing open", "error", err, "key", key)
				next.ServeHTTP(w, r)
				return
			}
			core.JSON(w, http.StatusServiceUnavailable, core.ErrorResponse{
				Message: "service unavailable",
			})
			return
		}

		setRateLimitHeaders(w, res, limit)

		if res.Allowed == 0 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	if rl.redis != nil {
		res, err := rl.redis.Allow(ctx, key, limit)
		if err == nil {
			return res, nil
		}
	}
	return rl.fallback.allow(key, limit)
}

// ByIP applies one budget per client address.
func ByIP(limit redis_rate.Limit) Policy {
	return func(r *http.Request) (string, redis_rate.Limit) {
		return KeyByIP(r), limit
	}
}

// Budget splits a role's allowance between reads and writes so that bursts
// of follows, likes or comments cannot starve browsing.
type Budget struct {
	Read  redis_rate.Limit
	Write redis_rate.Limit
}

type RoleLimits map[string]Budget

var DefaultRoleLimits = RoleLimits{
	roleAnonymous: {Read: PerMinute(60, 10), Write: PerMinute(10, 5)},
	RoleMember:    {Read: PerMinute(300, 50), Write: PerMinute(60, 20)},
	RoleAdmin:     {Read: PerMinute(1200, 200), Write: PerMinute(600, 100)},
}

// ByRole must run after OptionalAuth or Authenticator so the role is known.
// Buckets are per caller and per normalized endpoint.
func ByRole(limits RoleLimits) Policy {
	return func(r *http.Request) (string, redis_rate.Limit) {
		role := GetUserRole(r.Context())
		budget, ok := limits[role]
		if !ok {
			budget = limits[roleAnonymous]
		}

		caller := KeyByIP(r)
		if userID := GetUserID(r.Context()); userID != "" {
			caller = "ratelimit:user:" + userID
		}

		class, limit := "read", budget.Read
		if isWrite(r.Method) {
			class, limit = "write", budget.Write
		}

		return fmt.Sprintf("%s:%s:%s", caller, class, normalizeEndpoint(r.URL.Path)), limit
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ratelimit:ip:" + ip
}

func normalizeEndpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if isUUID(part) || isNumeric(part) || isShortID(part) {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	return s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}

// isShortID matches snowflake user ids: 8 to 16 alphanumerics with at least
// one digit, which keeps route words like "followers" intact.
func isShortID(s string) bool {
	if len(s) < 8 || len(s) > 16 {
		return false
	}

	hasDigit := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		default:
			return false
		}
	}

	return hasDigit
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d`, limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf(`%d;t=%d`, res.Remaining, int(res.ResetAfter.Seconds())))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Message: fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
		Error:   "RATE_LIMITED",
	})
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64
}

type localLimiter struct {
	limiters sync.Map
}

const (
	cleanupInterval = 5 * time.Minute
	entryTTL        = 10 * time.Minute
)

func newLocalLimiter() *localLimiter {
	l := &localLimiter{}
	go l.cleanup()
	return l
}

func (l *localLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-entryTTL).Unix()
		l.limiters.Range(func(key, value any) bool {
			if entry, ok := value.(*limiterEntry); ok && entry.lastAccess.Load() < cutoff {
				l.limiters.Delete(key)
			}
			return true
		})
	}
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSecond)

	v, ok := l.limiters.Load(key)
	if !ok {
		v, _ = l.limiters.LoadOrStore(key, &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst),
		})
	}

	entry, ok := v.(*limiterEntry)
	if !ok {
		return nil, fmt.Errorf("local limiter: unexpected entry %T", v)
	}
	entry.lastAccess.Store(time.Now().Unix())

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  max(int(entry.limiter.Tokens()), 0),
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if entry.limiter.Allow() {
		res.Allowed = 1
		res.Remaining = max(int(entry.limiter.Tokens()), 0)
	} else {
		res.RetryAfter = interval
	}

	return res, nil
}

// Limit builds a budget of rate requests per window.
func Limit(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: window}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return Limit(rate, burst, time.Minute)
}
