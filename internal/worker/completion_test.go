package worker

import (
	"context"
	"testing"
	"time"

	"venuebook/internal/ledger"
	"venuebook/internal/models"
	"venuebook/internal/service"
	"venuebook/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSweepFixture(t *testing.T, now time.Time) (*CompletionWorker, *store.Store) {
	t.Helper()

	logger := zerolog.Nop()
	s := store.New(&logger)
	bookings := service.NewBookingService(s, ledger.New(s, ledger.PerBooking), nil, nil, 365, &logger)

	w := NewCompletionWorker(s, bookings, RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond}, &logger)
	w.now = func() time.Time { return now }
	return w, s
}

func seedBooking(t *testing.T, s *store.Store, ref, date, status string) models.Booking {
	t.Helper()

	b, err := s.CreateBooking(models.Booking{
		Reference: ref,
		UserID:    1,
		VenueID:   1,
		Date:      date,
		Tickets:   map[int64]int64{1: 1},
		Status:    status,
	})
	require.NoError(t, err)
	return b
}

func TestSweep(t *testing.T) {
	now := time.Date(2026, time.September, 12, 3, 0, 0, 0, time.UTC)
	w, s := newSweepFixture(t, now)

	past := seedBooking(t, s, "BKPAST0001", "2026-09-10", models.StatusConfirmed)
	today := seedBooking(t, s, "BKTODAY001", "2026-09-12", models.StatusConfirmed)
	future := seedBooking(t, s, "BKNEXT0001", "2026-09-20", models.StatusConfirmed)
	cancelled := seedBooking(t, s, "BKGONE0001", "2026-09-10", models.StatusCancelled)

	assert.Equal(t, 1, w.Sweep(context.Background()))

	check := func(id int64, want string, msgAndArgs ...any) {
		b, err := s.GetBooking(id)
		require.NoError(t, err)
		assert.Equal(t, want, b.Status, msgAndArgs...)
	}
	check(past.ID, models.StatusCompleted)
	check(today.ID, models.StatusConfirmed, "the visit day itself is not swept")
	check(future.ID, models.StatusConfirmed)
	check(cancelled.ID, models.StatusCancelled, "terminal states are left alone")

	t.Run("Idempotent", func(t *testing.T) {
		assert.Equal(t, 0, w.Sweep(context.Background()))
	})
}

func TestSweepEmptyStore(t *testing.T) {
	w, _ := newSweepFixture(t, time.Now())
	assert.Equal(t, 0, w.Sweep(context.Background()))
}

func TestTimeUntilHour(t *testing.T) {
	base := time.Date(2026, time.September, 12, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 2*time.Hour, timeUntilHour(base, 3))
	assert.Equal(t, 22*time.Hour, timeUntilHour(base.Add(4*time.Hour), 3), "past today's slot rolls to tomorrow")
	assert.Equal(t, 24*time.Hour, timeUntilHour(time.Date(2026, time.September, 12, 3, 0, 0, 0, time.UTC), 3))
}

func TestRetryPolicyNextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	assert.Equal(t, 5*time.Second, p.NextDelay(4), "clamped at MaxDelay")
	assert.Equal(t, time.Second, p.NextDelay(0), "attempts below one use the initial delay")

	t.Run("Defaults", func(t *testing.T) {
		var zero RetryPolicy
		assert.Equal(t, time.Second, zero.NextDelay(1))
		assert.Equal(t, 2*time.Second, zero.NextDelay(2))
	})
}
