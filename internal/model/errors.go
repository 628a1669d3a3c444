package model

import "errors"

// Common errors used across the application
var (
	// Class errors
	ErrClassNotFound    = errors.New("class not found")
	ErrInvalidField     = errors.New("invalid class field")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidAgeRange  = errors.New("invalid age range")
	ErrInvalidIcon      = errors.New("invalid icon")
	ErrChildNotFound    = errors.New("child not found")
	ErrSessionNotFound  = errors.New("registration session not found")
	ErrNothingToSubmit  = errors.New("no complete registrations to submit")
	ErrAlreadySubmitted = errors.New("registration already submitted")

	// Registration errors
	ErrRegistrationConflict = errors.New("child registered for multiple classes in the same period")

	// Admin errors
	ErrInvalidPassword = errors.New("incorrect password")
	ErrInvalidToken    = errors.New("invalid or expired admin token")

	// Store errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrStoreRead        = errors.New("store read failed")
	ErrStoreWrite       = errors.New("store write failed")
)
