package handler

import (
	"net/http"

	"github.com/mcoot/classreg/internal/api/request"
	"github.com/mcoot/classreg/internal/api/response"
	"github.com/mcoot/classreg/internal/services/admin"
)

// AdminHandler handles admin login
type AdminHandler struct {
	admin *admin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *admin.Service) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	token, expires, err := h.admin.Login(req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginResponse{Token: token, ExpiresAt: expires})
}
