package middleware

import (
	"log/slog"
	"net/http"

	"hrhub/internal/domain/auth"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/shared"
)

// RequirePermission gates a route on the signed-in role.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := CurrentSession(r)
			if !ok || !sess.Authenticated() {
				shared.RedirectHome(w, r)
				return
			}
			role := sess.Snapshot().Role()
			if !auth.HasPermission(role, permission) {
				slog.Info("permission denied", "role", role, "permission", permission, "path", r.URL.Path)
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
