package worker

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/models"
	"venuebook/internal/service"
	"venuebook/internal/store"

	"github.com/rs/zerolog"
)

// CompletionWorker moves confirmed bookings to completed once their visit
// date has passed. It runs a daily sweep in the early morning.
type CompletionWorker struct {
	store    *store.Store
	bookings *service.BookingService
	retry    RetryPolicy
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewCompletionWorker(s *store.Store, bookings *service.BookingService, retry RetryPolicy, logger *zerolog.Logger) *CompletionWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = time.Second
	}
	return &CompletionWorker{
		store:    s,
		bookings: bookings,
		retry:    retry,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules the daily sweep until ctx is cancelled.
func (w *CompletionWorker) Start(ctx context.Context) {
	go func() {
		timer := time.NewTimer(timeUntilHour(w.now(), models.CompletionHour))
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				w.Sweep(ctx)
				timer.Reset(24 * time.Hour)
			}
		}
	}()
}

// Sweep completes every confirmed booking whose date is before today.
func (w *CompletionWorker) Sweep(ctx context.Context) int {
	today := w.now().Format(models.DateLayout)
	completed := 0

	for _, b := range w.store.ListBookings() {
		if b.Status != models.StatusConfirmed || b.Date >= today {
			continue
		}
		if w.completeWithRetry(ctx, b.ID) {
			completed++
		}
	}

	if completed > 0 {
		w.logger.Info().Int("completed", completed).Msg("completion sweep done")
	}
	return completed
}

func (w *CompletionWorker) completeWithRetry(ctx context.Context, id int64) bool {
	for attempt := 1; ; attempt++ {
		_, err := w.bookings.CompleteBooking(ctx, id)
		if err == nil {
			return true
		}
		// Concurrent cancellation is not a failure worth retrying.
		if errors.Is(err, service.ErrStatusConflict) || errors.Is(err, store.ErrNotFound) {
			return false
		}
		if attempt >= w.retry.MaxRetries {
			w.logger.Error().Err(err).Int64("booking_id", id).Msg("complete booking failed")
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(w.retry.NextDelay(attempt)):
		}
	}
}

// timeUntilHour returns the wait until the next occurrence of the given
// local hour.
func timeUntilHour(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
