package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/veldtlabs/docvault/internal/api"
)

type contextKey string

const UserIDKey contextKey = "user_id"
const AdminKey contextKey = "is_admin"

// BearerAuth requires an Authorization header carrying an opaque user id.
// Identity comes from an upstream gateway; every request must name the
// user it acts for, since the access predicate is evaluated per user.
// An optional X-Admin-Token matching adminToken marks the request admin.
func BearerAuth(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				api.Error(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			userID := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if userID == "" {
				api.Error(w, http.StatusUnauthorized, "empty user id")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			if adminToken != "" && r.Header.Get("X-Admin-Token") == adminToken {
				ctx = context.WithValue(ctx, AdminKey, true)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id from context.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// IsAdmin reports whether the request carried a valid admin token.
func IsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(AdminKey).(bool)
	return isAdmin
}
