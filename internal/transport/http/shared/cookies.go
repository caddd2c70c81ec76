package shared

import (
	"net/http"
	"time"
)

const (
	SessionCookie = "hrhub_session"
	TokenCookie   = "hrhub_token"
)

// Cookies writes the portal's auth cookies. Both are HttpOnly.
type Cookies struct {
	Secure bool
	TTL    time.Duration
}

func (c Cookies) SetSession(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) SetToken(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearAuth expires both cookies.
func ClearAuth(w http.ResponseWriter) {
	for _, name := range []string{SessionCookie, TokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}
