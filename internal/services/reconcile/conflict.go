// Package reconcile holds the registration rules: period conflict detection
// for a user's in-progress selection and duplicate-free roster merging.
package reconcile

import (
	"fmt"

	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/names"
)

// ClassLookup resolves a class id to its current class info
type ClassLookup func(id model.ClassID) (model.ClassInfo, bool)

// LookupFromList builds a ClassLookup over a class list
func LookupFromList(classes []model.ClassInfo) ClassLookup {
	byID := make(map[model.ClassID]model.ClassInfo, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
	}
	return func(id model.ClassID) (model.ClassInfo, bool) {
		c, ok := byID[id]
		return c, ok
	}
}

// ConflictError reports a child booked into two classes sharing a period
type ConflictError struct {
	Child  model.Child
	Period model.Period
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Error: %s %s is registered for multiple classes in the %s period.",
		names.ProperCase(e.Child.FirstName), names.ProperCase(e.Child.LastName), e.Period)
}

// Is lets callers match the error with errors.Is(err, model.ErrRegistrationConflict)
func (e *ConflictError) Is(target error) bool {
	return target == model.ErrRegistrationConflict
}

type booking struct {
	period model.Period
	child  model.Child
}

// DetectConflict returns the first period conflict in the selection, or nil.
// Classes are visited in selection order and children in list order.
// Classes the lookup does not know and incomplete children are skipped.
func DetectConflict(selection *model.Selection, lookup ClassLookup) error {
	seen := make(map[string]booking)
	var conflict *ConflictError

	selection.Each(func(classID model.ClassID, children []model.Child) bool {
		class, ok := lookup(classID)
		if !ok {
			return true
		}
		for _, child := range children {
			if !child.IsComplete() {
				continue
			}
			key := names.Key(child.FirstName, child.LastName)
			if prev, ok := seen[key]; ok && prev.period == class.Period {
				conflict = &ConflictError{Child: child, Period: class.Period}
				return false
			}
			seen[key] = booking{period: class.Period, child: child}
		}
		return true
	})

	if conflict != nil {
		return conflict
	}
	return nil
}
