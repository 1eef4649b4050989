package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dataqueryai/dataquery/internal/session"
)

type key string

const (
	usernameKey key = "username"
	tokenKey    key = "token"
)

// SessionAuth verifies the Bearer token with the session manager and puts
// the session's username (and the raw token, for logout) on the request
// context. Revoked tokens fail here even before they expire.
func SessionAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			sess, err := sessions.Verify(tokenStr)
			if err != nil {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, sess.Username)
			ctx = context.WithValue(ctx, tokenKey, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUsername returns a context carrying the session username, as
// SessionAuth would set it.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// WithToken returns a context carrying the raw session token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetUsername returns the authenticated username from the request context.
func GetUsername(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(usernameKey).(string)
	return u, ok && u != ""
}

// GetToken returns the raw session token from the request context.
func GetToken(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok && t != ""
}
