package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	domainerrors "github.com/nihilcoder/promptlab/internal/errors"
	"github.com/nihilcoder/promptlab/internal/logger"
	"github.com/nihilcoder/promptlab/internal/ratelimit"
)

// rateLimitMiddleware limits mutating requests per caller.
// Authenticated callers are keyed by user ID, anonymous ones by client IP.
// Returns 429 Too Many Requests when limit is exceeded.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, fallback *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := rateLimitKey(r)
			if !limiter.Allow(key) {
				logger.FromContext(r.Context(), fallback).Warn("rate limit exceeded",
					"key", key,
				)
				writeError(w, domainerrors.RateLimited("Too many requests. Please try again later."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func rateLimitKey(r *http.Request) string {
	if userID := viewerID(r.Context()); userID != 0 {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	return "ip:" + getClientIP(r)
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// First entry of X-Forwarded-For is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
