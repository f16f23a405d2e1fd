package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/httpx"
)

// Middleware rejects requests without a valid bearer token and stores the
// resulting Session in the request context.
func Middleware(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				httpx.Error(w, r, fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthenticated))
				return
			}
			sess, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireRole only lets sessions with one of roles through. It must run
// after Middleware.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFrom(r.Context())
			if !ok {
				httpx.Error(w, r, apperr.ErrUnauthenticated)
				return
			}
			for _, role := range roles {
				if sess.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, r, fmt.Errorf("%w: %s may not call this endpoint", apperr.ErrNotAuthorized, sess.Role))
		})
	}
}

// MustSession is for handlers mounted behind Middleware.
func MustSession(r *http.Request) (Session, error) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		return Session{}, apperr.ErrUnauthenticated
	}
	return sess, nil
}
