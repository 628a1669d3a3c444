package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/classreg/internal/api/apierr"
	apimiddleware "github.com/mcoot/classreg/internal/api/middleware"
	"github.com/mcoot/classreg/internal/dependencies/clock"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/admin"
	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/services/export"
	"github.com/mcoot/classreg/internal/web/middleware"
	"github.com/mcoot/classreg/internal/web/templates/pages"
)

// Flash messages for failed admin writes
const (
	CreateFailedMessage = "Failed to add class. Please try again."
	UpdateFailedMessage = "Failed to update class. Please try again."
	DeleteFailedMessage = "Failed to delete class. Please try again."
	RosterFailedMessage = "Failed to save roster. Please try again."
)

const qrCodeSize = 256

// AdminHandler handles the admin pages
type AdminHandler struct {
	admin   *admin.Service
	catalog *catalog.Catalog
	clock   clock.Clock
	logger  *slog.Logger
	baseURL string
	secure  bool
}

// NewAdminHandler creates a new AdminHandler. baseURL is the public address
// of the registration page; when empty it is taken from each request.
func NewAdminHandler(adminService *admin.Service, catalog *catalog.Catalog, clock clock.Clock, logger *slog.Logger, baseURL string, secure bool) *AdminHandler {
	return &AdminHandler{
		admin:   adminService,
		catalog: catalog,
		clock:   clock,
		logger:  logger,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		secure:  secure,
	}
}

// LoginPage renders the admin login form
func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(apimiddleware.AdminCookieName); err == nil && h.admin.Validate(cookie.Value) == nil {
		redirect(w, r, "/admin")
		return
	}

	render(w, r, http.StatusOK, pages.AdminLogin(pages.AdminLoginData{PageData: pageData(r, "Admin Login")}))
}

// Login checks the admin password
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	token, expires, err := h.admin.Login(r.FormValue("password"))
	if err != nil {
		status := http.StatusUnauthorized
		message := apierr.IncorrectPasswordMessage
		if !errors.Is(err, model.ErrInvalidPassword) {
			h.logger.Error("admin login failed", "error", err)
			status = http.StatusInternalServerError
			message = "Login failed. Please try again."
		}
		render(w, r, status, pages.AdminLogin(pages.AdminLoginData{
			PageData: pageData(r, "Admin Login"),
			Error:    message,
		}))
		return
	}

	middleware.SetAdminCookie(w, token, expires, h.secure)
	redirect(w, r, "/admin")
}

// Logout clears the admin cookie
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAdminCookie(w)
	middleware.SetFlash(w, middleware.FlashInfo, "Logged out of admin.")
	redirect(w, r, "/")
}

// Page renders the class and roster editor
func (h *AdminHandler) Page(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "Admin")
	reload(r, h.catalog, h.logger, &data)

	rosters := h.catalog.Rosters()
	classes := h.catalog.Classes()

	cards := make([]pages.ClassCard, len(classes))
	for i, class := range classes {
		cards[i] = pages.ClassCard{Class: class, Children: rosters[class.ID]}
	}

	render(w, r, http.StatusOK, pages.Admin(pages.AdminData{
		PageData:        data,
		Classes:         cards,
		RegistrationURL: h.registrationURL(r),
	}))
}

// CreateClass adds a class with default values
func (h *AdminHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	class, err := h.catalog.CreateClass(r.Context())
	if err != nil {
		middleware.SetFlash(w, middleware.FlashError, CreateFailedMessage)
		redirect(w, r, "/admin")
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Class added.")
	redirect(w, r, "/admin#class-"+string(class.ID))
}

// UpdateClass saves every field of the edit form that changed
func (h *AdminHandler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	id := model.ClassID(mux.Vars(r)["id"])
	class, err := h.catalog.Class(id)
	if err != nil {
		NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		redirect(w, r, "/admin")
		return
	}

	current := map[model.ClassField]string{
		model.FieldName:        class.Name,
		model.FieldDescription: class.Description,
		model.FieldAgeRange:    string(class.AgeRange),
		model.FieldPeriod:      string(class.Period),
		model.FieldIcon:        string(class.Icon),
		model.FieldInstructor:  class.Instructor,
	}

	for _, field := range model.ClassFields {
		values, ok := r.PostForm[string(field)]
		if !ok || len(values) == 0 || values[0] == current[field] {
			continue
		}
		if _, err := h.catalog.UpdateClass(r.Context(), id, field, values[0]); err != nil {
			middleware.SetFlash(w, middleware.FlashError, updateFailure(err))
			redirect(w, r, "/admin#class-"+string(id))
			return
		}
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Class saved.")
	redirect(w, r, "/admin#class-"+string(id))
}

func updateFailure(err error) string {
	if errors.Is(err, model.ErrStoreWrite) {
		return UpdateFailedMessage
	}
	return err.Error()
}

// DeleteClass removes a class and its roster
func (h *AdminHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id := model.ClassID(mux.Vars(r)["id"])
	err := h.catalog.DeleteClass(r.Context(), id)
	switch {
	case err == nil:
		middleware.SetFlash(w, middleware.FlashSuccess, "Class deleted.")
	case errors.Is(err, model.ErrClassNotFound):
		NotFound(w, r)
		return
	default:
		middleware.SetFlash(w, middleware.FlashError, DeleteFailedMessage)
	}
	redirect(w, r, "/admin")
}

// SetRoster replaces a class's master roster from the roster table. Rows
// with both names cleared are dropped.
func (h *AdminHandler) SetRoster(w http.ResponseWriter, r *http.Request) {
	id := model.ClassID(mux.Vars(r)["id"])
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		redirect(w, r, "/admin")
		return
	}

	ids := r.PostForm["id"]
	firstNames := r.PostForm["firstName"]
	lastNames := r.PostForm["lastName"]
	rows := min(len(ids), len(firstNames), len(lastNames))

	children := make([]model.Child, 0, rows)
	for i := range rows {
		if strings.TrimSpace(firstNames[i]) == "" && strings.TrimSpace(lastNames[i]) == "" {
			continue
		}
		children = append(children, model.Child{
			ID:        model.ChildID(ids[i]),
			FirstName: firstNames[i],
			LastName:  lastNames[i],
		})
	}

	_, err := h.catalog.SetRoster(r.Context(), id, children)
	switch {
	case err == nil:
		middleware.SetFlash(w, middleware.FlashSuccess, "Roster saved.")
	case errors.Is(err, model.ErrClassNotFound):
		NotFound(w, r)
		return
	default:
		middleware.SetFlash(w, middleware.FlashError, RosterFailedMessage)
	}
	redirect(w, r, "/admin#class-"+string(id))
}

// RostersCSV downloads every roster as CSV
func (h *AdminHandler) RostersCSV(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Load(r.Context()); err != nil {
		h.logger.Warn("catalog reload failed", "error", err)
		middleware.SetFlash(w, middleware.FlashError, LoadFailedMessage)
		redirect(w, r, "/admin")
		return
	}

	now := h.clock.Now()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.RostersFilename(now))
	if err := export.RostersCSV(w, h.catalog.Classes(), h.catalog.Rosters(), now); err != nil {
		h.logger.Error("write rosters csv", "error", err)
	}
}

// QRCode serves a QR code linking to the registration page
func (h *AdminHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := export.QRCode(h.registrationURL(r), qrCodeSize)
	if err != nil {
		h.logger.Error("render qr code", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

func (h *AdminHandler) registrationURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL + "/"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}
