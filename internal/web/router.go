package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/classreg/internal/dependencies/clock"
	"github.com/mcoot/classreg/internal/services/admin"
	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/services/registration"
	"github.com/mcoot/classreg/internal/web/handler"
	"github.com/mcoot/classreg/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger       *slog.Logger
	Catalog      *catalog.Catalog
	Sessions     *registration.Manager
	AdminService *admin.Service
	Clock        clock.Clock

	// CSRFKey enables CSRF protection on forms when set (32 bytes)
	CSRFKey []byte
	// BaseURL is the public address of the site, used for the QR code
	BaseURL string
	// SecureCookies marks cookies HTTPS-only
	SecureCookies bool
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	sessionMiddleware := middleware.Session(cfg.Sessions, cfg.SecureCookies)
	adminMiddleware := middleware.AdminAuth(cfg.AdminService)

	// Apply global middleware to all routes
	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	if len(cfg.CSRFKey) > 0 {
		r.Use(middleware.CSRF(cfg.CSRFKey, cfg.SecureCookies))
	}

	// Create handlers
	registerHandler := handler.NewRegisterHandler(cfg.Sessions, cfg.Catalog, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.Catalog, cfg.Clock, cfg.Logger, cfg.BaseURL, cfg.SecureCookies)

	r.HandleFunc("/qr.png", adminHandler.QRCode).Methods(http.MethodGet)

	// Admin login (no admin cookie required)
	adminLogin := r.PathPrefix("/admin").Subrouter()
	adminLogin.Use(flashMiddleware)
	adminLogin.HandleFunc("/login", adminHandler.LoginPage).Methods(http.MethodGet)
	adminLogin.HandleFunc("/login", adminHandler.Login).Methods(http.MethodPost)
	adminLogin.HandleFunc("/logout", adminHandler.Logout).Methods(http.MethodPost)

	// Admin pages
	protected := r.PathPrefix("/admin").Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(adminMiddleware)
	protected.HandleFunc("", adminHandler.Page).Methods(http.MethodGet)
	protected.HandleFunc("/classes", adminHandler.CreateClass).Methods(http.MethodPost)
	protected.HandleFunc("/classes/{id}", adminHandler.UpdateClass).Methods(http.MethodPost)
	protected.HandleFunc("/classes/{id}/delete", adminHandler.DeleteClass).Methods(http.MethodPost)
	protected.HandleFunc("/classes/{id}/roster", adminHandler.SetRoster).Methods(http.MethodPost)
	protected.HandleFunc("/rosters.csv", adminHandler.RostersCSV).Methods(http.MethodGet)

	// Registration pages
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(sessionMiddleware)
	public.HandleFunc("/", registerHandler.Page).Methods(http.MethodGet)
	public.HandleFunc("/sort", registerHandler.Sort).Methods(http.MethodPost)
	public.HandleFunc("/classes/{id}/children", registerHandler.AddChild).Methods(http.MethodPost)
	public.HandleFunc("/classes/{id}/children/{childID}", registerHandler.UpdateChild).Methods(http.MethodPost)
	public.HandleFunc("/classes/{id}/children/{childID}/remove", registerHandler.RemoveChild).Methods(http.MethodPost)
	public.HandleFunc("/submit", registerHandler.Submit).Methods(http.MethodPost)
	public.HandleFunc("/thanks", registerHandler.Thanks).Methods(http.MethodGet)
	public.HandleFunc("/thanks/summary.txt", registerHandler.SummaryText).Methods(http.MethodGet)
	public.HandleFunc("/reset", registerHandler.Reset).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)

	return r
}
