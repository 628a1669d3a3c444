// Package registration holds a parent's in-progress registration and the
// manager that keeps one per browser or API client.
package registration

import (
	"slices"

	"github.com/mcoot/classreg/internal/dependencies/random"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/names"
	"github.com/mcoot/classreg/internal/services/reconcile"
	"github.com/mcoot/classreg/internal/services/sorting"
)

// Session is one user's registration in progress. It is not safe for
// concurrent use; the Manager serializes access.
type Session struct {
	Token string

	random    random.Random
	selection *model.Selection
	sort      sorting.Config
	conflict  error
	submitted bool
	summary   []model.ClassRegistration
}

// NewSession creates an empty session
func NewSession(token string, random random.Random) *Session {
	return &Session{
		Token:     token,
		random:    random,
		selection: model.NewSelection(),
		sort:      sorting.DefaultConfig(),
	}
}

// Selection returns a copy of the in-progress selection
func (s *Session) Selection() *model.Selection {
	return s.selection.Clone()
}

// Children returns the rows entered for a class
func (s *Session) Children(classID model.ClassID) []model.Child {
	return s.selection.Get(classID)
}

// AddChild appends an empty row to a class
func (s *Session) AddChild(classID model.ClassID) model.Child {
	child := model.Child{ID: model.ChildID(s.random.UUID())}
	s.selection.Set(classID, append(s.selection.Get(classID), child))
	return child
}

// UpdateChild sets a row's names, proper-cased
func (s *Session) UpdateChild(classID model.ClassID, childID model.ChildID, firstName, lastName string) error {
	children := s.selection.Get(classID)
	i := slices.IndexFunc(children, func(c model.Child) bool { return c.ID == childID })
	if i < 0 {
		return model.ErrChildNotFound
	}
	children[i].FirstName = names.ProperCase(firstName)
	children[i].LastName = names.ProperCase(lastName)
	s.selection.Set(classID, children)
	return nil
}

// RemoveChild deletes a row
func (s *Session) RemoveChild(classID model.ClassID, childID model.ChildID) error {
	children := s.selection.Get(classID)
	i := slices.IndexFunc(children, func(c model.Child) bool { return c.ID == childID })
	if i < 0 {
		return model.ErrChildNotFound
	}
	s.selection.Set(classID, slices.Delete(children, i, i+1))
	return nil
}

// SetChildren replaces all rows of a class. Rows without an id get one.
func (s *Session) SetChildren(classID model.ClassID, children []model.Child) {
	rows := make([]model.Child, 0, len(children))
	for _, c := range children {
		if c.ID == "" {
			c.ID = model.ChildID(s.random.UUID())
		}
		c.FirstName = names.ProperCase(c.FirstName)
		c.LastName = names.ProperCase(c.LastName)
		rows = append(rows, c)
	}
	s.selection.Set(classID, rows)
}

// Recheck recomputes the period conflict against the current class list
func (s *Session) Recheck(classes []model.ClassInfo) error {
	s.conflict = reconcile.DetectConflict(s.selection, reconcile.LookupFromList(classes))
	return s.conflict
}

// Conflict returns the conflict found by the last Recheck, if any
func (s *Session) Conflict() error {
	return s.conflict
}

// ActiveClasses returns the classes holding at least one complete child
func (s *Session) ActiveClasses() []model.ClassID {
	var active []model.ClassID
	s.selection.Each(func(classID model.ClassID, children []model.Child) bool {
		if model.HasComplete(children) {
			active = append(active, classID)
		}
		return true
	})
	return active
}

// CanSubmit reports whether there is something to submit and no conflict
func (s *Session) CanSubmit() bool {
	return !s.submitted && s.conflict == nil && len(s.ActiveClasses()) > 0
}

// Summary lists, in the order of classes, each class with its complete
// children proper-cased
func (s *Session) Summary(classes []model.ClassInfo) []model.ClassRegistration {
	return SummaryOf(s.selection, classes)
}

// SummaryOf builds a registration summary for any selection
func SummaryOf(selection *model.Selection, classes []model.ClassInfo) []model.ClassRegistration {
	var out []model.ClassRegistration
	for _, class := range classes {
		complete := model.CompleteChildren(selection.Get(class.ID))
		if len(complete) == 0 {
			continue
		}
		children := make([]model.Child, len(complete))
		for i, c := range complete {
			children[i] = reconcile.FormatChild(c)
		}
		out = append(out, model.ClassRegistration{Class: class, Children: children})
	}
	return out
}

// Sort returns the class sort config
func (s *Session) Sort() sorting.Config {
	return s.sort
}

// ToggleSort applies a sort button press
func (s *Session) ToggleSort(key sorting.Key) sorting.Config {
	s.sort = s.sort.Toggle(key)
	return s.sort
}

// MarkSubmitted records a successful submission and its summary
func (s *Session) MarkSubmitted(summary []model.ClassRegistration) {
	s.submitted = true
	s.summary = summary
}

// Submitted reports whether the session has been submitted
func (s *Session) Submitted() bool {
	return s.submitted
}

// SubmittedSummary returns the summary recorded at submission
func (s *Session) SubmittedSummary() []model.ClassRegistration {
	return slices.Clone(s.summary)
}

// Reset starts a new registration, keeping the sort order
func (s *Session) Reset() {
	s.selection = model.NewSelection()
	s.conflict = nil
	s.submitted = false
	s.summary = nil
}
