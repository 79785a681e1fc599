package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
)

type ctxKey int

const userContextKey ctxKey = iota

// UserFromContext returns the authenticated user attached by the auth
// middleware.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(domain.User)
	return user, ok
}

const accessTokenCookie = "accessToken"

// requireAuth resolves the bearer token (header or cookie) to a live
// user and attaches it to the request context.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			writeError(w, a.logger, apperror.Unauthorized("authentication required"))
			return
		}

		user, err := a.auth.Authenticate(r.Context(), tokenString)
		if err != nil {
			writeError(w, a.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func (a *API) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			writeError(w, a.logger, apperror.Forbidden("admin access required"))
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps the whole mux with access logging and Prometheus
// counters, labelled by the matched route pattern.
func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		elapsed := time.Since(start)

		a.metrics.Requests.WithLabelValues(pattern, fmt.Sprintf("%d", rec.status)).Inc()
		a.metrics.LatencyMS.WithLabelValues(pattern).Observe(float64(elapsed.Milliseconds()))

		a.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}
