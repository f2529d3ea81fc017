// Package ledger answers "is capacity left for (venue, date)" and commits a
// booking's worth of capacity. The check-then-increment itself lives in the
// store's critical section; the ledger owns the unit policy and the error
// taxonomy callers see.
package ledger

import (
	"errors"

	"venuebook/internal/models"
	"venuebook/internal/store"
)

var (
	ErrDateNotAvailable = errors.New("date is not open for booking")
	ErrCapacityExceeded = errors.New("no remaining capacity for date")
)

// Units decides how many capacity units one booking consumes.
type Units int

const (
	// PerBooking charges one unit per booking regardless of ticket count.
	PerBooking Units = iota
	// PerTicket charges one unit per ticket.
	PerTicket
)

type Ledger struct {
	store *store.Store
	units Units
}

func New(s *store.Store, units Units) *Ledger {
	return &Ledger{store: s, units: units}
}

// Capacity reports the ledger entry for a (venue, date) pair. A date that
// was never registered is, by policy, not bookable; ok is false then.
func (l *Ledger) Capacity(venueID int64, day string) (models.AvailableDate, bool) {
	return l.store.DateEntry(venueID, day)
}

// Reserve commits capacity for a booking of the given ticket count.
// On failure nothing is mutated.
func (l *Ledger) Reserve(venueID int64, day string, tickets int64) (models.AvailableDate, error) {
	entry, err := l.store.ReserveDate(venueID, day, l.unitsFor(tickets))
	if err != nil {
		return models.AvailableDate{}, mapErr(err)
	}
	return entry, nil
}

// Release returns the capacity a booking held, e.g. on cancellation.
func (l *Ledger) Release(venueID int64, day string, tickets int64) (models.AvailableDate, error) {
	entry, err := l.store.ReleaseDate(venueID, day, l.unitsFor(tickets))
	if err != nil {
		return models.AvailableDate{}, mapErr(err)
	}
	return entry, nil
}

func (l *Ledger) unitsFor(tickets int64) int64 {
	if l.units == PerTicket {
		return tickets
	}
	return 1
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrDateNotAvailable
	case errors.Is(err, store.ErrCapacityExceeded):
		return ErrCapacityExceeded
	default:
		return err
	}
}
