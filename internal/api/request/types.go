package request

import (
	"github.com/mcoot/classreg/internal/model"
)

// Child is one child row in a request body
type Child struct {
	ID        string `json:"id" validate:"max=128"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// ToModel converts the row to a model.Child
func (c Child) ToModel() model.Child {
	return model.Child{ID: model.ChildID(c.ID), FirstName: c.FirstName, LastName: c.LastName}
}

// ChildrenToModel converts request rows
func ChildrenToModel(children []Child) []model.Child {
	out := make([]model.Child, len(children))
	for i, c := range children {
		out[i] = c.ToModel()
	}
	return out
}

// ClassSelection is the children entered for one class
type ClassSelection struct {
	ClassID  string  `json:"classId" validate:"notblank"`
	Children []Child `json:"children" validate:"dive"`
}

// RegistrationRequest is the request body for checking or submitting a
// registration. Selections are processed in order.
type RegistrationRequest struct {
	Selections []ClassSelection `json:"selections" validate:"required,min=1,dive"`
}

// ToSelection builds the ordered model selection. Children listed under a
// repeated classId are appended to that class's earlier entry.
func (r RegistrationRequest) ToSelection() *model.Selection {
	sel := model.NewSelection()
	for _, s := range r.Selections {
		id := model.ClassID(s.ClassID)
		sel.Set(id, append(sel.Get(id), ChildrenToModel(s.Children)...))
	}
	return sel
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// UpdateClassRequest is the request body for editing one class field
type UpdateClassRequest struct {
	Field string `json:"field" validate:"required,oneof=name description ageRange period icon instructor"`
	Value string `json:"value"`
}

// SetRosterRequest is the request body for replacing a master roster
type SetRosterRequest struct {
	Children []Child `json:"children" validate:"dive"`
}
