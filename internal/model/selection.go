package model

import "slices"

// Selection is a user's in-progress registrations, keyed by class. Classes
// iterate in the order they were first set, so every consumer sees the same
// deterministic order.
type Selection struct {
	order    []ClassID
	children map[ClassID][]Child
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{children: make(map[ClassID][]Child)}
}

// Set replaces the children for a class
func (s *Selection) Set(classID ClassID, children []Child) {
	if _, ok := s.children[classID]; !ok {
		s.order = append(s.order, classID)
	}
	s.children[classID] = slices.Clone(children)
}

// Get returns the children for a class
func (s *Selection) Get(classID ClassID) []Child {
	return slices.Clone(s.children[classID])
}

// ClassIDs returns the classes in iteration order
func (s *Selection) ClassIDs() []ClassID {
	return slices.Clone(s.order)
}

// Len returns the number of classes in the selection
func (s *Selection) Len() int {
	return len(s.order)
}

// Each calls fn for every class in iteration order until fn returns false
func (s *Selection) Each(fn func(classID ClassID, children []Child) bool) {
	for _, id := range s.order {
		if !fn(id, s.children[id]) {
			return
		}
	}
}

// Clone returns a deep copy of the selection
func (s *Selection) Clone() *Selection {
	out := NewSelection()
	for _, id := range s.order {
		out.Set(id, s.children[id])
	}
	return out
}
