package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/carefleet/carefleet-backend/internal/http/response"
	"github.com/carefleet/carefleet-backend/internal/observability"
)

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// FailureMode controls what happens when the limiter backend itself
// errors: fail_open lets the request through, fail_closed rejects it.
type FailureMode string

const (
	FailOpen   FailureMode = "fail_open"
	FailClosed FailureMode = "fail_closed"
)

// RateLimit applies the limiter per client IP under the given scope.
// Limiter backend errors are resolved by mode: authentication endpoints
// run fail-closed, the rest of the API stays up without its limiter.
func RateLimit(scope string, limiter Limiter, mode FailureMode, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientIP(r)
			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				observability.RecordRateLimitDecision(r.Context(), scope, "error")
				if mode == FailClosed {
					logger.WarnContext(r.Context(), "rate limiter unavailable, rejecting request",
						"scope", scope, "mode", string(mode), "error", err)
					w.Header().Set("Retry-After", "1")
					response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED",
						"too many requests, slow down", nil)
					return
				}
				logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request",
					"scope", scope, "mode", string(mode), "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !decision.Allowed {
				observability.RecordRateLimitDecision(r.Context(), scope, "limited")
				retryAfter := int(decision.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED",
					"too many requests, slow down", nil)
				return
			}
			observability.RecordRateLimitDecision(r.Context(), scope, "allowed")
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type localWindow struct {
	count   int
	resetAt time.Time
}

// LocalLimiter is an in-process fixed-window limiter. Per-instance only;
// multi-replica deployments should use the Redis limiter instead.
type LocalLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*localWindow
	now     func() time.Time
}

func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*localWindow),
		now:     time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	win, ok := l.windows[key]
	if !ok || !now.Before(win.resetAt) {
		win = &localWindow{resetAt: now.Add(l.window)}
		l.windows[key] = win
	}

	if win.count >= l.limit {
		return Decision{Allowed: false, RetryAfter: win.resetAt.Sub(now)}, nil
	}
	win.count++
	return Decision{Allowed: true, Remaining: l.limit - win.count}, nil
}
