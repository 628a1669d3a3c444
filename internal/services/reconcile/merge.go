package reconcile

import (
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/names"
)

// FormatChild returns the child with proper-cased names
func FormatChild(c model.Child) model.Child {
	c.FirstName = names.ProperCase(c.FirstName)
	c.LastName = names.ProperCase(c.LastName)
	return c
}

// MergeRoster appends the complete, proper-cased incoming children whose
// normalized names are not already on the roster. Existing entries are
// returned untouched and in order. Duplicates inside incoming collapse to
// the earliest one.
func MergeRoster(existing, incoming []model.Child) []model.Child {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, c := range existing {
		seen[names.Key(c.FirstName, c.LastName)] = struct{}{}
	}

	merged := make([]model.Child, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)

	for _, c := range incoming {
		if !c.IsComplete() {
			continue
		}
		formatted := FormatChild(c)
		key := names.Key(formatted.FirstName, formatted.LastName)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, formatted)
	}

	return merged
}

// Added returns the children MergeRoster would append to existing
func Added(existing, incoming []model.Child) []model.Child {
	merged := MergeRoster(existing, incoming)
	return merged[len(existing):]
}
