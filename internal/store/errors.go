package store

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrCapacityExceeded = errors.New("capacity exceeded for date")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrDateExists       = errors.New("available date already registered for venue")
	ErrReferenceTaken   = errors.New("booking reference already in use")
	ErrNothingToRelease = errors.New("booked count underflow on release")
)
