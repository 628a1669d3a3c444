package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Class:
		o.printClass(v)
	case ClassList:
		o.printClassList(v)
	case Roster:
		o.printRoster(v)
	case RosterList:
		o.printRosterList(v)
	case CheckResult:
		o.printCheckResult(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case LoginResult:
		fmt.Fprintf(o.w, "Logged in, token expires %s\n", v.ExpiresAt.Local().Format(time.RFC1123))
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Class response type (matches API)
type Class struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AgeRange    string `json:"ageRange"`
	Period      string `json:"period"`
	Icon        string `json:"icon"`
	Instructor  string `json:"instructor"`
}

// ClassList response type
type ClassList struct {
	Classes   []Class `json:"classes"`
	Sort      string  `json:"sort"`
	Direction string  `json:"direction"`
}

// Child is a registered child
type Child struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Roster response type
type Roster struct {
	ClassID  string  `json:"classId"`
	Children []Child `json:"children"`
}

// RosterList response type
type RosterList struct {
	Rosters []Roster `json:"rosters"`
}

// CheckResult response type
type CheckResult struct {
	OK        bool   `json:"ok"`
	Conflict  string `json:"conflict,omitempty"`
	CanSubmit bool   `json:"canSubmit"`
}

// ClassRegistration is one class of a submitted registration
type ClassRegistration struct {
	Class    Class   `json:"class"`
	Children []Child `json:"children"`
}

// SubmitResult response type
type SubmitResult struct {
	Summary []ClassRegistration `json:"summary"`
	Added   []Roster            `json:"added"`
}

// LoginResult response type
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printClass(c Class) {
	fmt.Fprintf(o.w, "Class: %s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(o.w, "Age Range: %s\n", c.AgeRange)
	fmt.Fprintf(o.w, "Period: %s\n", c.Period)
	fmt.Fprintf(o.w, "Icon: %s\n", c.Icon)
	if c.Instructor != "" {
		fmt.Fprintf(o.w, "Instructor: %s\n", c.Instructor)
	}
	if c.Description != "" {
		fmt.Fprintf(o.w, "\n%s\n", c.Description)
	}
}

func (o *Output) printClassList(l ClassList) {
	if len(l.Classes) == 0 {
		fmt.Fprintln(o.w, "No classes")
		return
	}
	for _, c := range l.Classes {
		fmt.Fprintf(o.w, "%-36s  %-12s  %-4s  %s\n", c.ID, c.AgeRange, c.Period, c.Name)
	}
}

func (o *Output) printRoster(r Roster) {
	fmt.Fprintf(o.w, "Roster: %s (%d)\n", r.ClassID, len(r.Children))
	for i, c := range r.Children {
		fmt.Fprintf(o.w, "  %d. %s\n", i+1, fullName(c))
	}
}

func (o *Output) printRosterList(l RosterList) {
	for i, r := range l.Rosters {
		if i > 0 {
			fmt.Fprintln(o.w)
		}
		o.printRoster(r)
	}
}

func (o *Output) printCheckResult(c CheckResult) {
	switch {
	case !c.OK:
		fmt.Fprintln(o.w, c.Conflict)
	case c.CanSubmit:
		fmt.Fprintln(o.w, "No conflicts, ready to submit")
	default:
		fmt.Fprintln(o.w, "No conflicts, but no child has both a first and last name")
	}
}

func (o *Output) printSubmitResult(s SubmitResult) {
	fmt.Fprintln(o.w, "Registration submitted")
	for _, entry := range s.Summary {
		fmt.Fprintf(o.w, "\n%s (%s | %s Period)\n", entry.Class.Name, entry.Class.AgeRange, entry.Class.Period)
		for _, c := range entry.Children {
			fmt.Fprintf(o.w, "- %s\n", fullName(c))
		}
	}

	added := 0
	for _, r := range s.Added {
		added += len(r.Children)
	}
	fmt.Fprintf(o.w, "\n%d new roster entries\n", added)
}

func fullName(c Child) string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
