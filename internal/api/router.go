package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/classreg/internal/api/handler"
	"github.com/mcoot/classreg/internal/api/middleware"
	"github.com/mcoot/classreg/internal/dependencies/clock"
	"github.com/mcoot/classreg/internal/services/admin"
	"github.com/mcoot/classreg/internal/services/catalog"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Catalog      *catalog.Catalog
	AdminService *admin.Service
	Clock        clock.Clock
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	classHandler := handler.NewClassHandler(cfg.Catalog)
	rosterHandler := handler.NewRosterHandler(cfg.Catalog, cfg.Clock)
	registrationHandler := handler.NewRegistrationHandler(cfg.Catalog)
	adminHandler := handler.NewAdminHandler(cfg.AdminService)

	// Create middleware
	adminMiddleware := middleware.AdminAuth(cfg.AdminService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Public routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/classes", classHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/classes/{id}", classHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/registrations/check", registrationHandler.Check).Methods(http.MethodPost)
	api.HandleFunc("/registrations", registrationHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)

	// Admin routes
	protected := api.NewRoute().Subrouter()
	protected.Use(adminMiddleware)
	protected.HandleFunc("/classes", classHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/classes/{id}", classHandler.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/classes/{id}", classHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/classes/{id}/roster", rosterHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/classes/{id}/roster", rosterHandler.Set).Methods(http.MethodPut)
	protected.HandleFunc("/rosters", rosterHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/rosters/export", rosterHandler.Export).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
