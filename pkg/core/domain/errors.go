package domain

import "errors"

var (
	// ErrLinkNotFound is returned when no record matches a short code or id.
	ErrLinkNotFound = errors.New("link not found")
	// ErrCodeTaken is returned when a requested alias is already in use.
	ErrCodeTaken = errors.New("short code already exists")
	// ErrInvalidURL is returned when the submitted URL has no domain separator.
	ErrInvalidURL = errors.New("invalid url")
	// ErrEmailRequired is returned when a sign-in form carries no email.
	ErrEmailRequired = errors.New("email is required")
)
