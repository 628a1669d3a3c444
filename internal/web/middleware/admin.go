package middleware

import (
	"net/http"
	"time"

	apimiddleware "github.com/mcoot/classreg/internal/api/middleware"
	"github.com/mcoot/classreg/internal/services/admin"
)

// AdminAuth returns middleware that requires a valid admin cookie.
// Redirects to the admin login page otherwise.
func AdminAuth(adminService *admin.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(apimiddleware.AdminCookieName)
			if err != nil || adminService.Validate(cookie.Value) != nil {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetAdminCookie stores an admin token until it expires
func SetAdminCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     apimiddleware.AdminCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAdminCookie logs the browser out of the admin pages
func ClearAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     apimiddleware.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
