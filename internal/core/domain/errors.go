package domain

import "errors"

// Not found.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEventNotFound = errors.New("event not found")
)

// Rejected by a business rule.
var (
	ErrAlreadyAttending   = errors.New("user already in event")
	ErrNoTicketsAvailable = errors.New("no tickets available")
	ErrNotAttending       = errors.New("user not in event")
	ErrLastEventManager   = errors.New("cannot remove last event manager")
	ErrPasswordUnchanged  = errors.New("new password cannot be the same as the old one")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidTickets     = errors.New("available tickets cannot be negative")
	ErrInvalidAvatar      = errors.New("avatar must be a non-empty image")
)

// Uniqueness conflicts.
var (
	ErrUserExists    = errors.New("username and email already in use")
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
)

var (
	ErrInvalidCredentials = errors.New("credentials not valid, try login again")
	ErrForbidden          = errors.New("access forbidden")
)
