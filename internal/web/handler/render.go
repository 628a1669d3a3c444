package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/web/middleware"
	"github.com/mcoot/classreg/internal/web/templates/layout"
	"github.com/mcoot/classreg/internal/web/templates/pages"
)

// pageData builds the layout data common to every page
func pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title:     title,
		Flash:     middleware.GetFlash(r.Context()),
		CSRFField: middleware.CSRFField(r),
	}
}

// LoadFailedMessage is shown over the last loaded classes when a reload fails
const LoadFailedMessage = "Failed to load classes. Please try again."

// reload refreshes the catalog from the store. On failure the page keeps the
// previously loaded state and shows an error banner instead of any flash.
func reload(r *http.Request, cat *catalog.Catalog, logger *slog.Logger, data *layout.PageData) {
	if err := cat.Load(r.Context()); err != nil {
		logger.Warn("catalog reload failed", "error", err)
		data.Flash = &layout.FlashMessage{Type: middleware.FlashError, Message: LoadFailedMessage}
	}
}

// render writes a page with the given status. The page is rendered to a
// buffer first so a template error can still become a 500.
func render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	var buf bytes.Buffer
	if err := page.Render(r.Context(), &buf); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError renders the error page
func renderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: pageData(r, title),
		Message:  message,
	}))
}

// NotFound renders the 404 page
func NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "Page Not Found", "The page you were looking for does not exist.")
}

// redirect sends the browser back to a page after a form post
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
