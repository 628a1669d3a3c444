// Package layout holds the data shared by every page
package layout

import "html/template"

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData is embedded in every page's data
type PageData struct {
	Title string
	Flash *FlashMessage

	// CSRFField is the hidden form input carrying the CSRF token, or empty
	// when CSRF protection is off
	CSRFField template.HTML

	// Admin is set on admin pages to show the admin navigation
	Admin bool
}
