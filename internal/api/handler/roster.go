package handler

import (
	"net/http"

	"github.com/mcoot/classreg/internal/api/request"
	"github.com/mcoot/classreg/internal/api/response"
	"github.com/mcoot/classreg/internal/dependencies/clock"
	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/services/export"
)

// RosterHandler handles master roster endpoints
type RosterHandler struct {
	catalog *catalog.Catalog
	clock   clock.Clock
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(catalog *catalog.Catalog, clock clock.Clock) *RosterHandler {
	return &RosterHandler{catalog: catalog, clock: clock}
}

// Get handles GET /api/v1/classes/{id}/roster
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := classID(r)
	children, err := h.catalog.Roster(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Roster{ClassID: string(id), Children: response.ChildrenFromModel(children)})
}

// Set handles PUT /api/v1/classes/{id}/roster
func (h *RosterHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req request.SetRosterRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	id := classID(r)
	children, err := h.catalog.SetRoster(r.Context(), id, request.ChildrenToModel(req.Children))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Roster{ClassID: string(id), Children: response.ChildrenFromModel(children)})
}

// List handles GET /api/v1/rosters
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Load(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RosterListFromModel(h.catalog.Classes(), h.catalog.Rosters()))
}

// Export handles GET /api/v1/rosters/export
func (h *RosterHandler) Export(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Load(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	now := h.clock.Now()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.RostersFilename(now))
	_ = export.RostersCSV(w, h.catalog.Classes(), h.catalog.Rosters(), now)
}
