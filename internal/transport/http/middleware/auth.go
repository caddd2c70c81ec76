package middleware

import (
	"net/http"

	"hrhub/internal/transport/http/shared"
)

// RequireAuth sends anonymous browsers back to the sign-in page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := CurrentSession(r)
		if !ok || !sess.Authenticated() {
			shared.RedirectHome(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
