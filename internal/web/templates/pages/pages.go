// Package pages renders the full HTML pages of the web UI
package pages

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/export"
	"github.com/mcoot/classreg/internal/services/sorting"
	"github.com/mcoot/classreg/internal/web/templates/components"
	"github.com/mcoot/classreg/internal/web/templates/layout"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"icon":     components.Icon,
	"markdown": components.Markdown,
	"heading":  export.SummaryHeading,
	"arrow":    arrow,
	"inc":      func(i int) int { return i + 1 },
}

var (
	registerPage   = parse("register.html")
	thanksPage     = parse("thanks.html")
	adminLoginPage = parse("admin_login.html")
	adminPage      = parse("admin.html")
	errorPage      = parse("error.html")
)

func parse(page string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(funcs).ParseFS(files, "html/layout.html", "html/"+page))
}

// arrow marks the active sort button with its direction
func arrow(cfg sorting.Config, key string) string {
	if string(cfg.Key) != key {
		return ""
	}
	if cfg.Direction == sorting.Desc {
		return " ↓"
	}
	return " ↑"
}

// ClassCard is one class with the rows entered for it
type ClassCard struct {
	Class    model.ClassInfo
	Children []model.Child
}

// RegisterData is the data for the registration page
type RegisterData struct {
	layout.PageData
	Classes   []ClassCard
	Sort      sorting.Config
	Conflict  string
	CanSubmit bool
}

// Register renders the registration page
func Register(data RegisterData) templ.Component {
	return templ.FromGoHTML(registerPage, data)
}

// ThanksData is the data for the thank-you page
type ThanksData struct {
	layout.PageData
	Summary []model.ClassRegistration
}

// Thanks renders the thank-you page
func Thanks(data ThanksData) templ.Component {
	return templ.FromGoHTML(thanksPage, data)
}

// AdminLoginData is the data for the admin login page
type AdminLoginData struct {
	layout.PageData
	Error string
}

// AdminLogin renders the admin login page
func AdminLogin(data AdminLoginData) templ.Component {
	return templ.FromGoHTML(adminLoginPage, data)
}

// AdminData is the data for the admin page
type AdminData struct {
	layout.PageData
	Classes         []ClassCard
	RegistrationURL string
	AgeRanges       []model.AgeRange
	Periods         []model.Period
	Icons           []model.Icon
}

// Admin renders the admin page
func Admin(data AdminData) templ.Component {
	data.PageData.Admin = true
	data.AgeRanges = model.AgeRanges
	data.Periods = model.Periods
	data.Icons = model.Icons
	return templ.FromGoHTML(adminPage, data)
}

// ErrorData is the data for the error page
type ErrorData struct {
	layout.PageData
	Message string
}

// Error renders an error page
func Error(data ErrorData) templ.Component {
	return templ.FromGoHTML(errorPage, data)
}
