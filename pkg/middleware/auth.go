package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/okarlsson/paysplit/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"
)

// UserIDMiddleware resolves the calling user from the X-User-ID header.
// Token issuance and verification live in the gateway in front of this
// service; by the time a request reaches here the header carries a
// trusted user id.
func UserIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			response.Unauthorized(w, "X-User-ID header required")
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			response.Unauthorized(w, "X-User-ID must be a valid UUID")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
