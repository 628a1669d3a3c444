package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/classreg/internal/api/request"
	"github.com/mcoot/classreg/internal/api/response"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/services/reconcile"
	"github.com/mcoot/classreg/internal/services/registration"
)

// RegistrationHandler handles conflict checks and submissions for API
// clients, which send their whole selection with each request
type RegistrationHandler struct {
	catalog *catalog.Catalog
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(catalog *catalog.Catalog) *RegistrationHandler {
	return &RegistrationHandler{catalog: catalog}
}

// Check handles POST /api/v1/registrations/check
func (h *RegistrationHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req request.RegistrationRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	classes := h.catalog.Classes()
	selection := req.ToSelection()

	resp := response.CheckResponse{OK: true}
	if err := reconcile.DetectConflict(selection, reconcile.LookupFromList(classes)); err != nil {
		if !errors.Is(err, model.ErrRegistrationConflict) {
			WriteError(w, err)
			return
		}
		resp.OK = false
		resp.Conflict = err.Error()
	}
	resp.CanSubmit = resp.OK && len(registration.SummaryOf(selection, classes)) > 0

	response.JSON(w, http.StatusOK, resp)
}

// Submit handles POST /api/v1/registrations
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.RegistrationRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	selection := req.ToSelection()
	additions, err := h.catalog.Submit(r.Context(), selection)
	if err != nil {
		WriteError(w, err)
		return
	}

	summary := registration.SummaryOf(selection, h.catalog.Classes())
	response.JSON(w, http.StatusCreated, response.SubmitResponseFromModel(summary, additions))
}
