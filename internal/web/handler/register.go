package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/services/export"
	"github.com/mcoot/classreg/internal/services/registration"
	"github.com/mcoot/classreg/internal/services/sorting"
	"github.com/mcoot/classreg/internal/web/middleware"
	"github.com/mcoot/classreg/internal/web/templates/pages"
)

// Messages shown after a failed submission
const (
	SubmitFailedMessage    = "Failed to submit registration. Please try again."
	NothingToSubmitMessage = "Add at least one child with a first and last name before submitting."
)

// RegisterHandler handles the parent-facing registration pages
type RegisterHandler struct {
	sessions *registration.Manager
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(sessions *registration.Manager, catalog *catalog.Catalog, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{sessions: sessions, catalog: catalog, logger: logger}
}

// Page renders the registration page
func (h *RegisterHandler) Page(w http.ResponseWriter, r *http.Request) {
	data := pages.RegisterData{PageData: pageData(r, "Register")}
	reload(r, h.catalog, h.logger, &data.PageData)
	submitted := false

	err := h.withSession(r, func(s *registration.Session) error {
		if s.Submitted() {
			submitted = true
			return nil
		}

		classes := h.catalog.Classes()
		if conflict := s.Recheck(classes); conflict != nil {
			data.Conflict = conflict.Error()
		}
		data.Sort = s.Sort()
		for _, class := range sorting.Classes(classes, data.Sort) {
			data.Classes = append(data.Classes, pages.ClassCard{Class: class, Children: s.Children(class.ID)})
		}
		data.CanSubmit = s.CanSubmit()
		return nil
	})
	if err != nil {
		h.sessionError(w, r, err)
		return
	}
	if submitted {
		redirect(w, r, "/thanks")
		return
	}

	render(w, r, http.StatusOK, pages.Register(data))
}

// Sort toggles the class sort order
func (h *RegisterHandler) Sort(w http.ResponseWriter, r *http.Request) {
	key := sorting.ParseKey(r.FormValue("key"))
	err := h.withSession(r, func(s *registration.Session) error {
		s.ToggleSort(key)
		return nil
	})
	if err != nil {
		h.sessionError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

// AddChild appends an empty row to a class
func (h *RegisterHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	classID, ok := h.class(w, r)
	if !ok {
		return
	}

	var child model.Child
	err := h.withSession(r, func(s *registration.Session) error {
		child = s.AddChild(classID)
		return nil
	})
	if err != nil {
		h.sessionError(w, r, err)
		return
	}
	redirect(w, r, "/#child-"+string(child.ID))
}

// UpdateChild saves a row's names
func (h *RegisterHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	classID, ok := h.class(w, r)
	if !ok {
		return
	}

	childID := model.ChildID(mux.Vars(r)["childID"])
	err := h.withSession(r, func(s *registration.Session) error {
		return s.UpdateChild(classID, childID, r.FormValue("firstName"), r.FormValue("lastName"))
	})
	if err != nil {
		h.sessionError(w, r, err)
		return
	}
	redirect(w, r, "/#class-"+string(classID))
}

// RemoveChild deletes a row
func (h *RegisterHandler) RemoveChild(w http.ResponseWriter, r *http.Request) {
	classID, ok := h.class(w, r)
	if !ok {
		return
	}

	childID := model.ChildID(mux.Vars(r)["childID"])
	err := h.withSession(r, func(s *registration.Session) error {
		return s.RemoveChild(classID, childID)
	})
	if err != nil {
		h.sessionError(w, r, err)
		return
	}
	redirect(w, r, "/#class-"+string(classID))
}

// Submit merges the session's selection into the shared rosters
func (h *RegisterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetSessionToken(r.Context())
	_, err := h.sessions.Submit(r.Context(), token)

	switch {
	case err == nil:
		redirect(w, r, "/thanks")
	case errors.Is(err, model.ErrAlreadySubmitted):
		redirect(w, r, "/thanks")
	case errors.Is(err, model.ErrRegistrationConflict):
		middleware.SetFlash(w, middleware.FlashError, err.Error())
		redirect(w, r, "/")
	case errors.Is(err, model.ErrNothingToSubmit):
		middleware.SetFlash(w, middleware.FlashError, NothingToSubmitMessage)
		redirect(w, r, "/")
	case errors.Is(err, model.ErrSessionNotFound):
		h.sessionError(w, r, err)
	default:
		h.logger.Error("registration submit failed", "error", err)
		middleware.SetFlash(w, middleware.FlashError, SubmitFailedMessage)
		redirect(w, r, "/")
	}
}

// Thanks renders the thank-you page for a submitted registration
func (h *RegisterHandler) Thanks(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.submittedSummary(w, r)
	if !ok {
		return
	}

	render(w, r, http.StatusOK, pages.Thanks(pages.ThanksData{
		PageData: pageData(r, "Thank You"),
		Summary:  summary,
	}))
}

// SummaryText downloads the registration summary
func (h *RegisterHandler) SummaryText(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.submittedSummary(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.SummaryFilename)
	if err := export.Summary(w, summary); err != nil {
		h.logger.Error("write registration summary", "error", err)
	}
}

// Reset starts a fresh registration, keeping the sort order
func (h *RegisterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	err := h.withSession(r, func(s *registration.Session) error {
		s.Reset()
		return nil
	})
	if err != nil {
		h.sessionError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

func (h *RegisterHandler) submittedSummary(w http.ResponseWriter, r *http.Request) ([]model.ClassRegistration, bool) {
	var summary []model.ClassRegistration
	submitted := false
	err := h.withSession(r, func(s *registration.Session) error {
		submitted = s.Submitted()
		summary = s.SubmittedSummary()
		return nil
	})
	if err != nil {
		h.sessionError(w, r, err)
		return nil, false
	}
	if !submitted {
		redirect(w, r, "/")
		return nil, false
	}
	return summary, true
}

// class resolves the {id} route variable to a known class
func (h *RegisterHandler) class(w http.ResponseWriter, r *http.Request) (model.ClassID, bool) {
	id := model.ClassID(mux.Vars(r)["id"])
	if _, err := h.catalog.Class(id); err != nil {
		NotFound(w, r)
		return "", false
	}
	return id, true
}

func (h *RegisterHandler) withSession(r *http.Request, fn func(s *registration.Session) error) error {
	return h.sessions.With(middleware.GetSessionToken(r.Context()), fn)
}

func (h *RegisterHandler) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrChildNotFound):
		NotFound(w, r)
	case errors.Is(err, model.ErrSessionNotFound):
		middleware.SetFlash(w, middleware.FlashInfo, "Your registration session expired. Please start again.")
		redirect(w, r, "/")
	default:
		h.logger.Error("registration session error", "error", err)
		renderError(w, r, http.StatusInternalServerError, "Something Went Wrong", "Something went wrong. Please try again.")
	}
}
