package model

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	ErrInvalidCode         = errors.New("invalid access code")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrEmailRequired       = errors.New("email address is required")
	ErrInvalidTransition   = errors.New("operation not allowed in current state")
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidLocation     = errors.New("invalid location")
	ErrInvalidImage        = errors.New("unsupported image")
	ErrChecklistIncomplete = errors.New("all checklist items must be checked")
	ErrCommentRequired     = errors.New("please enter a comment")
	ErrRequestAlreadySent  = errors.New("gift card payment request already sent")
	ErrNoGiftCard          = errors.New("payment has no gift card amount")
	ErrEndBeforeStart      = errors.New("end date must not be before start date")
	ErrHolidayLeadTime     = errors.New("holiday requests must be made at least 31 days in advance")
	ErrMissingFields       = errors.New("missing required fields")
	ErrMailNotSent         = errors.New("failed to send email")
	ErrInvalidExpression   = errors.New("invalid expression")
	ErrUnsupportedVersion  = errors.New("unsupported record version")
)
