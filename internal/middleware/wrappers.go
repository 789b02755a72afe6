package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/auth"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/validation"
	"github.com/glowdesk/inventory-service/pkg/cache"
)

// BodyHandler receives the decoded, validated request body.
type BodyHandler[B, T any] func(r *http.Request, body B) result.Result[T]

// WithBody parses and validates the JSON body before the handler runs. A
// malformed body or failed validation never reaches the handler.
func WithBody[B, T any](h BodyHandler[B, T], opts Options) http.HandlerFunc {
	return WithResult(func(r *http.Request) result.Result[T] {
		body := validation.DecodeAndValidate[B](r.Body)
		return result.FlatMap(body, func(b B) result.Result[T] {
			return h(r, b)
		})
	}, opts)
}

// AuthedHandler receives the resolved identity.
type AuthedHandler[T any] func(r *http.Request, id auth.Identity) result.Result[T]

// WithAuth resolves the caller first; an authentication failure
// short-circuits before the handler body.
func WithAuth[T any](authn auth.Authenticator, h AuthedHandler[T], opts Options) http.HandlerFunc {
	return WithResult(func(r *http.Request) result.Result[T] {
		return result.FlatMap(authn(r), func(id auth.Identity) result.Result[T] {
			return h(r, id)
		})
	}, opts)
}

// WithPermissions composes WithAuth with a permission check. A failed check
// or a false outcome becomes an AuthorizationError.
func WithPermissions[T any](required []string, authn auth.Authenticator, check auth.PermissionChecker, h AuthedHandler[T], opts Options) http.HandlerFunc {
	return WithAuth(authn, func(r *http.Request, id auth.Identity) result.Result[T] {
		granted := check(r.Context(), id.UserID, id.TenantID, required)
		return result.FlatMap(granted, func(ok bool) result.Result[T] {
			if !ok {
				return result.Err[T](apperror.Authorization(
					"Insufficient permissions. Required: "+strings.Join(required, ", "),
					strings.Join(required, ", "),
					id.UserID,
				))
			}
			return h(r, id)
		})
	}, opts)
}

// RateLimiter counts a hit against key and reports whether it is allowed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter int, err error)
}

// RedisRateLimiter is a fixed-window limiter on Redis counters.
type RedisRateLimiter struct {
	Client *cache.RedisClient
	Limit  int
	Window time.Duration
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	count, err := l.Client.IncrWindow(ctx, "ratelimit:"+key, l.Window)
	if err != nil {
		return false, 0, err
	}
	if count > int64(l.Limit) {
		return false, int(l.Window / time.Second), nil
	}
	return true, 0, nil
}

// WithRateLimit rejects over-limit requests with a RateLimitError. Limiter
// errors fail open: an unavailable limiter must not take the API down.
func WithRateLimit[T any](limiter RateLimiter, limit int, window string, keyFn func(*http.Request) string, h Handler[T], opts Options) http.HandlerFunc {
	return WithResult(func(r *http.Request) result.Result[T] {
		allowed, retryAfter, err := limiter.Allow(r.Context(), keyFn(r))
		if err == nil && !allowed {
			return result.Err[T](apperror.RateLimit(limit, window, retryAfter))
		}
		return h(r)
	}, opts)
}

// RateLimit is a router-level variant of WithRateLimit: it guards every
// route behind it, keyed per tenant with a remote-address fallback.
func RateLimit(limiter RateLimiter, limit int, window string, opts Options) func(http.Handler) http.Handler {
	o := opts.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Tenant-Id")
			if key == "" {
				key = r.RemoteAddr
			}

			allowed, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil || allowed {
				next.ServeHTTP(w, r)
				return
			}

			rateErr := apperror.RateLimit(limit, window, retryAfter)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, apperror.HTTPStatus(rateErr), APIResponse{
				Success: false,
				Error: &APIError{
					Message: rateErr.Message,
					Type:    string(rateErr.Kind),
					Code:    rateErr.Code,
				},
				Meta: Meta{
					RequestID: requestID(),
					Timestamp: time.Now().UTC().Format(time.RFC3339),
					Version:   o.Version,
				},
			})
		})
	}
}

// HealthStatus is the payload of a passing health check.
type HealthStatus struct {
	Status    string          `json:"status"`
	Checks    map[string]bool `json:"checks"`
	Timestamp string          `json:"timestamp"`
}

// HealthCheck runs every named probe; the first failure fails the endpoint.
func HealthCheck(checks map[string]func(ctx context.Context) error, opts Options) http.HandlerFunc {
	return WithResult(func(r *http.Request) result.Result[HealthStatus] {
		statuses := make(map[string]bool, len(checks))
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				return result.Err[HealthStatus](apperror.Database(
					"health_check_failed",
					"Health check "+name+" failed",
					err,
				))
			}
			statuses[name] = true
		}
		return result.Ok(HealthStatus{
			Status:    "healthy",
			Checks:    statuses,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}, opts)
}
