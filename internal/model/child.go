package model

import "strings"

// ChildID identifies a child within one class's registration list
type ChildID string

// Child is a single registration row. The JSON shape matches the stored
// "children" list of a registrations document.
type Child struct {
	ID        ChildID `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
}

// IsComplete reports whether both names are non-blank
func (c Child) IsComplete() bool {
	return strings.TrimSpace(c.FirstName) != "" && strings.TrimSpace(c.LastName) != ""
}

// CompleteChildren returns the complete children of the list, in order
func CompleteChildren(children []Child) []Child {
	var out []Child
	for _, c := range children {
		if c.IsComplete() {
			out = append(out, c)
		}
	}
	return out
}

// HasComplete reports whether any child in the list is complete
func HasComplete(children []Child) bool {
	for _, c := range children {
		if c.IsComplete() {
			return true
		}
	}
	return false
}
