package middleware

import (
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRF returns middleware that rejects form posts without a valid token.
// Plain-HTTP deployments skip the HTTPS referer check.
func CSRF(key []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// CSRFField returns the hidden token input for forms on this request, or
// empty when CSRF protection is off
func CSRFField(r *http.Request) template.HTML {
	return csrf.TemplateField(r)
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Forbidden - the form has expired, reload the page and try again", http.StatusForbidden)
}
