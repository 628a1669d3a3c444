package response

import (
	"time"

	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/catalog"
	"github.com/mcoot/classreg/internal/services/sorting"
)

// Class represents a class in API responses
type Class struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AgeRange    string `json:"ageRange"`
	Period      string `json:"period"`
	Icon        string `json:"icon"`
	Instructor  string `json:"instructor"`
}

// ClassFromModel converts a model.ClassInfo to a response Class
func ClassFromModel(c model.ClassInfo) Class {
	return Class{
		ID:          string(c.ID),
		Name:        c.Name,
		Description: c.Description,
		AgeRange:    string(c.AgeRange),
		Period:      string(c.Period),
		Icon:        string(c.Icon),
		Instructor:  c.Instructor,
	}
}

// ClassList is the response for listing classes
type ClassList struct {
	Classes   []Class `json:"classes"`
	Sort      string  `json:"sort"`
	Direction string  `json:"direction"`
}

// ClassListFromModel converts a sorted class list
func ClassListFromModel(classes []model.ClassInfo, cfg sorting.Config) ClassList {
	out := make([]Class, len(classes))
	for i, c := range classes {
		out[i] = ClassFromModel(c)
	}
	return ClassList{Classes: out, Sort: string(cfg.Key), Direction: string(cfg.Direction)}
}

// Child represents a child row
type Child struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ChildrenFromModel converts child rows
func ChildrenFromModel(children []model.Child) []Child {
	out := make([]Child, len(children))
	for i, c := range children {
		out[i] = Child{ID: string(c.ID), FirstName: c.FirstName, LastName: c.LastName}
	}
	return out
}

// Roster is one class's children
type Roster struct {
	ClassID  string  `json:"classId"`
	Children []Child `json:"children"`
}

// RosterList is the response for listing all rosters
type RosterList struct {
	Rosters []Roster `json:"rosters"`
}

// RosterListFromModel lists the rosters of classes, in class order
func RosterListFromModel(classes []model.ClassInfo, rosters model.Roster) RosterList {
	out := make([]Roster, 0, len(classes))
	for _, c := range classes {
		out = append(out, Roster{ClassID: string(c.ID), Children: ChildrenFromModel(rosters[c.ID])})
	}
	return RosterList{Rosters: out}
}

// CheckResponse is the result of a conflict check
type CheckResponse struct {
	OK        bool   `json:"ok"`
	Conflict  string `json:"conflict,omitempty"`
	CanSubmit bool   `json:"canSubmit"`
}

// ClassRegistration is one class of a registration summary
type ClassRegistration struct {
	Class    Class   `json:"class"`
	Children []Child `json:"children"`
}

// SubmitResponse is the response after submitting a registration
type SubmitResponse struct {
	Summary []ClassRegistration `json:"summary"`
	Added   []Roster            `json:"added"`
}

// SubmitResponseFromModel converts a summary and the catalog additions
func SubmitResponseFromModel(summary []model.ClassRegistration, additions []catalog.Addition) SubmitResponse {
	resp := SubmitResponse{
		Summary: make([]ClassRegistration, len(summary)),
		Added:   make([]Roster, len(additions)),
	}
	for i, entry := range summary {
		resp.Summary[i] = ClassRegistration{Class: ClassFromModel(entry.Class), Children: ChildrenFromModel(entry.Children)}
	}
	for i, a := range additions {
		resp.Added[i] = Roster{ClassID: string(a.ClassID), Children: ChildrenFromModel(a.Added)}
	}
	return resp
}

// LoginResponse is the response for admin login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
