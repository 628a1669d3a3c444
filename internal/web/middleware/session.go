package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/classreg/internal/services/registration"
)

type contextKey string

const (
	sessionContextKey contextKey = "registration"

	// SessionCookieName holds the registration session token
	SessionCookieName = "registration"
)

// GetSessionToken retrieves the registration session token from the request context
func GetSessionToken(ctx context.Context) string {
	token, _ := ctx.Value(sessionContextKey).(string)
	return token
}

// Session returns middleware that attaches a registration session to every
// request, starting a new one when the cookie is missing or has expired
func Session(manager *registration.Manager, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(SessionCookieName); err == nil && manager.Exists(cookie.Value) {
				token = cookie.Value
			} else {
				token = manager.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
