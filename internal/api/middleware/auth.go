package middleware

import (
	"net/http"
	"strings"

	"github.com/mcoot/classreg/internal/api/apierr"
	"github.com/mcoot/classreg/internal/services/admin"
)

// AdminCookieName is the cookie the web UI keeps the admin token in
const AdminCookieName = "admin_session"

// AdminAuth rejects requests without a valid admin token
func AdminAuth(adminService *admin.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if err := adminService.Validate(token); err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken extracts the admin token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(AdminCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}
