// Package sorting orders classes for display.
package sorting

import (
	"cmp"
	"slices"

	"github.com/mcoot/classreg/internal/model"
)

// Key is a sortable class attribute
type Key string

const (
	KeyAgeRange Key = "age_range"
	KeyPeriod   Key = "period"
)

// Direction is the sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Config is the active sort key and direction
type Config struct {
	Key       Key
	Direction Direction
}

// DefaultConfig sorts by age range, ascending
func DefaultConfig() Config {
	return Config{Key: KeyAgeRange, Direction: Asc}
}

// ParseKey validates a sort key, falling back to age range
func ParseKey(s string) Key {
	if Key(s) == KeyPeriod {
		return KeyPeriod
	}
	return KeyAgeRange
}

// ParseDirection validates a direction, falling back to ascending
func ParseDirection(s string) Direction {
	if Direction(s) == Desc {
		return Desc
	}
	return Asc
}

// Toggle returns the config after the user selects key: the same key flips
// the direction, a new key starts ascending.
func (c Config) Toggle(key Key) Config {
	if c.Key == key && c.Direction == Asc {
		return Config{Key: key, Direction: Desc}
	}
	return Config{Key: key, Direction: Asc}
}

func rank(c model.ClassInfo, key Key) int {
	if key == KeyPeriod {
		return c.Period.Rank()
	}
	return c.AgeRange.Rank()
}

// Classes returns a stably sorted copy of classes
func Classes(classes []model.ClassInfo, cfg Config) []model.ClassInfo {
	sorted := slices.Clone(classes)
	slices.SortStableFunc(sorted, func(a, b model.ClassInfo) int {
		c := cmp.Compare(rank(a, cfg.Key), rank(b, cfg.Key))
		if cfg.Direction == Desc {
			return -c
		}
		return c
	})
	return sorted
}

// ByIDDesc sorts classes in place by id, descending
func ByIDDesc(classes []model.ClassInfo) {
	slices.SortStableFunc(classes, func(a, b model.ClassInfo) int {
		return cmp.Compare(b.ID, a.ID)
	})
}
