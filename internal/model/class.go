package model

import (
	"slices"
	"strings"
)

// ClassID identifies a class document
type ClassID string

// TempClassIDPrefix marks a class that has not yet been assigned a store id
const TempClassIDPrefix = "temp-"

// IsTemp reports whether the id is a temporary local id
func (id ClassID) IsTemp() bool {
	return strings.HasPrefix(string(id), TempClassIDPrefix)
}

// Period is one of the three fixed time slots a class occupies
type Period string

const (
	Period1st Period = "1st"
	Period2nd Period = "2nd"
	Period3rd Period = "3rd"
)

// Periods lists all periods in rank order
var Periods = []Period{Period1st, Period2nd, Period3rd}

// Rank returns the position of the period in Periods, or -1 if unknown
func (p Period) Rank() int {
	return slices.Index(Periods, p)
}

// Valid reports whether p is a known period
func (p Period) Valid() bool {
	return p.Rank() >= 0
}

// ParsePeriod validates a period string
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.TrimSpace(s))
	if !p.Valid() {
		return "", ErrInvalidPeriod
	}
	return p, nil
}

// AgeRange is the age group a class is aimed at
type AgeRange string

const (
	AgeRangePreK     AgeRange = "Pre-K"
	AgeRangeK2       AgeRange = "K-2"
	AgeRangeGrades35 AgeRange = "Grades 3-5"
	AgeRangeGrades68 AgeRange = "Grades 6-8"
	AgeRange912      AgeRange = "Grades 9-12"
)

// AgeRanges lists all age ranges in rank order
var AgeRanges = []AgeRange{AgeRangePreK, AgeRangeK2, AgeRangeGrades35, AgeRangeGrades68, AgeRange912}

// Rank returns the position of the age range in AgeRanges, or -1 if unknown.
// Stored values outside the enumeration therefore sort before known ones.
func (a AgeRange) Rank() int {
	return slices.Index(AgeRanges, a)
}

// ParseAgeRange validates an age range string
func ParseAgeRange(s string) (AgeRange, error) {
	a := AgeRange(strings.TrimSpace(s))
	if a.Rank() < 0 {
		return "", ErrInvalidAgeRange
	}
	return a, nil
}

// Icon is the closed set of class icons
type Icon string

const (
	IconPaintBrush Icon = "PaintBrushIcon"
	IconMusicNote  Icon = "MusicNoteIcon"
	IconBookOpen   Icon = "BookOpenIcon"
	IconBeaker     Icon = "BeakerIcon"
)

// Icons lists all icons
var Icons = []Icon{IconPaintBrush, IconMusicNote, IconBookOpen, IconBeaker}

// IconFromTag maps a stored tag to an icon. Unknown tags fall back to the beaker.
func IconFromTag(tag string) Icon {
	icon := Icon(tag)
	if slices.Contains(Icons, icon) {
		return icon
	}
	return IconBeaker
}

// ParseIcon validates an icon tag supplied by an admin
func ParseIcon(s string) (Icon, error) {
	icon := Icon(strings.TrimSpace(s))
	if !slices.Contains(Icons, icon) {
		return "", ErrInvalidIcon
	}
	return icon, nil
}

// ClassInfo describes a class offered for registration
type ClassInfo struct {
	ID          ClassID  `json:"-"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AgeRange    AgeRange `json:"ageRange"`
	Period      Period   `json:"period"`
	Icon        Icon     `json:"icon"`
	Instructor  string   `json:"instructor"`
}

// Class defaults
const (
	DefaultNewClassName        = "New Class Name"
	DefaultNewClassDescription = "Enter a description for the new class."
	DefaultLoadedClassName     = "Unnamed Class"
)

// NewClassDefaults returns the class created by the "add new class" action
func NewClassDefaults() ClassInfo {
	return ClassInfo{
		Name:        DefaultNewClassName,
		Description: DefaultNewClassDescription,
		AgeRange:    AgeRangeK2,
		Period:      Period1st,
		Icon:        IconBeaker,
		Instructor:  "",
	}
}

// ApplyLoadDefaults fills in fields missing from a stored class document
func (c *ClassInfo) ApplyLoadDefaults() {
	if c.Name == "" {
		c.Name = DefaultLoadedClassName
	}
	if c.Period == "" {
		c.Period = Period1st
	}
	c.Icon = IconFromTag(string(c.Icon))
}

// ClassField names an admin-editable class field. Values match the stored
// document keys.
type ClassField string

const (
	FieldName        ClassField = "name"
	FieldDescription ClassField = "description"
	FieldAgeRange    ClassField = "ageRange"
	FieldPeriod      ClassField = "period"
	FieldIcon        ClassField = "icon"
	FieldInstructor  ClassField = "instructor"
)

// ClassFields lists the editable fields
var ClassFields = []ClassField{FieldName, FieldDescription, FieldAgeRange, FieldPeriod, FieldIcon, FieldInstructor}

// ParseClassField validates a field name
func ParseClassField(s string) (ClassField, error) {
	f := ClassField(s)
	if !slices.Contains(ClassFields, f) {
		return "", ErrInvalidField
	}
	return f, nil
}

// Roster maps a class to its registered children
type Roster map[ClassID][]Child

// Clone returns a copy whose child slices are independent of r
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for id, children := range r {
		out[id] = slices.Clone(children)
	}
	return out
}

// ClassRegistration pairs a class with the children registered for it
type ClassRegistration struct {
	Class    ClassInfo `json:"class"`
	Children []Child   `json:"children"`
}
