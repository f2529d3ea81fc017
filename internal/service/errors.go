package service

import "errors"

var (
	ErrVenueNotFound      = errors.New("venue not found")
	ErrInvalidTicketType  = errors.New("ticket type does not belong to venue")
	ErrInvalidQuantity    = errors.New("ticket quantity must not be negative")
	ErrEmptyBooking       = errors.New("booking must include at least one ticket")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrPastDate           = errors.New("date is in the past")
	ErrDateTooFar         = errors.New("date is too far in the future")
	ErrStatusConflict     = errors.New("booking status does not allow this transition")
	ErrNotBookingOwner    = errors.New("booking belongs to another user")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNegativePrice      = errors.New("ticket price must not be negative")
	ErrReferenceExhausted = errors.New("could not allocate a unique booking reference")
)
