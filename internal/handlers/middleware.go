package handlers

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"autorevise/internal/models"
	"autorevise/internal/security"
	"autorevise/internal/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	profiles *session.ProfileStore
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(profiles *session.ProfileStore) *Middleware {
	return &Middleware{profiles: profiles}
}

// RequireAuth gates a page on the cached profile. No backend call is
// made here; a stale profile surfaces as a 401 on the page's own API
// calls, which the handler turns into a logout.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := m.profiles.Load(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects requests from clients that exceed the limiter's
// rate. Applied to the login and register endpoints.
func RateLimit(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.ClientIP(r)
		if !limiter.Allow(ip) {
			log.WithField("ip", ip).Warn("rate limit exceeded")
			http.Error(w, "Too many requests. Please wait and try again.", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
