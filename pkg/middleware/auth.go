// Package middleware provides the HTTP middleware stack for the API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/auth"
	"github.com/shashiranjanraj/vampware/pkg/response"
)

// userIDKey is the unexported context key for the authenticated user ID.
type userIDKey struct{}

// UserID extracts the authenticated user's ID from the request context.
// The second return is false when the request did not pass RequireAuth.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok
}

// RequireAuth validates the bearer token and stores the resolved user ID
// in the request context. Missing, malformed, and invalid tokens all get
// the same 401 envelope.
func RequireAuth(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.FromError(w, apperr.Unauthorized("Missing or invalid authorization header"))
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				response.FromError(w, apperr.Unauthorized("Invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
