package models

const (
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	// DateLayout is the calendar-day format used for available dates and
	// booking dates across the API and the store.
	DateLayout = "2006-01-02"

	// ReferencePrefix starts every booking reference.
	ReferencePrefix = "BK"

	// ReferenceTokenLength is the number of random base36 characters after
	// the prefix.
	ReferenceTokenLength = 8

	// DefaultCapacity is the per-date capacity when a seed or admin request
	// does not specify one.
	DefaultCapacity = 100

	// DefaultIntentTTL is the payment-intent registry TTL in seconds.
	DefaultIntentTTL = 24 * 60 * 60

	// CompletionHour is the local hour at which the completion sweeper runs.
	CompletionHour = 3
)

// CanTransition reports whether a booking status change is allowed.
// Confirmed bookings may complete or cancel; terminal states never move.
func CanTransition(from, to string) bool {
	if from != StatusConfirmed {
		return false
	}
	return to == StatusCompleted || to == StatusCancelled
}
