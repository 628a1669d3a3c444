package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/classreg/internal/api/request"
	"github.com/mcoot/classreg/internal/api/response"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/services/sorting"
)

// ClassHandler handles class endpoints
type ClassHandler struct {
	catalog *catalog.Catalog
}

// NewClassHandler creates a new class handler
func NewClassHandler(catalog *catalog.Catalog) *ClassHandler {
	return &ClassHandler{catalog: catalog}
}

// List handles GET /api/v1/classes. The catalog is reloaded first; a failed
// read is a 502.
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Load(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	cfg := sorting.Config{
		Key:       sorting.ParseKey(r.URL.Query().Get("sort")),
		Direction: sorting.ParseDirection(r.URL.Query().Get("dir")),
	}

	classes := sorting.Classes(h.catalog.Classes(), cfg)
	response.JSON(w, http.StatusOK, response.ClassListFromModel(classes, cfg))
}

// Get handles GET /api/v1/classes/{id}
func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	class, err := h.catalog.Class(classID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClassFromModel(class))
}

// Create handles POST /api/v1/classes
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	class, err := h.catalog.CreateClass(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ClassFromModel(class))
}

// Update handles PATCH /api/v1/classes/{id}
func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateClassRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	class, err := h.catalog.UpdateClass(r.Context(), classID(r), model.ClassField(req.Field), req.Value)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClassFromModel(class))
}

// Delete handles DELETE /api/v1/classes/{id}
func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteClass(r.Context(), classID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func classID(r *http.Request) model.ClassID {
	return model.ClassID(mux.Vars(r)["id"])
}
