package service

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/events"
	"venuebook/internal/ledger"
	"venuebook/internal/metrics"
	"venuebook/internal/models"
	"venuebook/internal/payment"
	"venuebook/internal/store"

	"github.com/rs/zerolog"
)

// referenceAttempts bounds collision retries when allocating a reference.
const referenceAttempts = 5

// PaymentVerifier is what the booking service needs from the payment side.
type PaymentVerifier interface {
	Verify(ctx context.Context, intentID string, total float64) error
}

type BookingService struct {
	store          *store.Store
	ledger         *ledger.Ledger
	payments       PaymentVerifier
	bus            *events.EventBus
	maxAdvanceDays int
	logger         *zerolog.Logger
}

func NewBookingService(
	s *store.Store,
	l *ledger.Ledger,
	payments PaymentVerifier,
	bus *events.EventBus,
	maxAdvanceDays int,
	logger *zerolog.Logger,
) *BookingService {
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = 365
	}
	return &BookingService{
		store:          s,
		ledger:         l,
		payments:       payments,
		bus:            bus,
		maxAdvanceDays: maxAdvanceDays,
		logger:         logger,
	}
}

type CreateBookingInput struct {
	UserID          int64
	VenueID         int64
	Date            string
	Tickets         map[int64]int64
	CustomerDetails map[string]string
	PaymentIntentID string
}

// CreateBooking validates the request, verifies payment, commits ledger
// capacity and persists the booking with a fresh reference, in that order.
// Ledger units are released again if persisting fails.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (models.Booking, error) {
	if err := s.validateDate(in.Date); err != nil {
		return models.Booking{}, err
	}

	venue, err := s.store.GetVenue(in.VenueID)
	if err != nil || !venue.IsActive {
		return models.Booking{}, ErrVenueNotFound
	}

	prices := make(map[int64]float64)
	for _, tt := range s.store.TicketTypesByVenue(in.VenueID) {
		prices[tt.ID] = tt.Price
	}

	var total float64
	var count int64
	for id, qty := range in.Tickets {
		price, ok := prices[id]
		if !ok {
			return models.Booking{}, ErrInvalidTicketType
		}
		if qty < 0 {
			return models.Booking{}, ErrInvalidQuantity
		}
		total += price * float64(qty)
		count += qty
	}
	if count == 0 {
		return models.Booking{}, ErrEmptyBooking
	}

	if s.payments != nil {
		if err := s.payments.Verify(ctx, in.PaymentIntentID, total); err != nil {
			return models.Booking{}, err
		}
	}

	if _, err := s.ledger.Reserve(in.VenueID, in.Date, count); err != nil {
		if errors.Is(err, ledger.ErrCapacityExceeded) {
			metrics.IncCapacityRejection()
		}
		return models.Booking{}, err
	}

	booking := models.Booking{
		UserID:          in.UserID,
		VenueID:         in.VenueID,
		Date:            in.Date,
		Tickets:         in.Tickets,
		TotalAmount:     total,
		Status:          models.StatusConfirmed,
		CustomerDetails: in.CustomerDetails,
		CreatedAt:       time.Now(),
	}

	var created models.Booking
	for attempt := 0; ; attempt++ {
		booking.Reference = newReference()
		created, err = s.store.CreateBooking(booking)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrReferenceTaken) || attempt+1 >= referenceAttempts {
			if _, relErr := s.ledger.Release(in.VenueID, in.Date, count); relErr != nil {
				s.logger.Error().Err(relErr).Int64("venue_id", in.VenueID).Str("date", in.Date).Msg("release after failed create")
			}
			if errors.Is(err, store.ErrReferenceTaken) {
				return models.Booking{}, ErrReferenceExhausted
			}
			return models.Booking{}, err
		}
	}

	metrics.IncBookingCreated()
	s.publish(events.EventBookingCreated, created)
	return created, nil
}

// CancelBooking moves a confirmed booking to cancelled and gives its ledger
// units back. Admins may cancel any booking, users only their own.
func (s *BookingService) CancelBooking(ctx context.Context, reference string, userID int64, isAdmin bool) (models.Booking, error) {
	booking, err := s.store.GetBookingByReference(reference)
	if err != nil {
		return models.Booking{}, err
	}
	if !isAdmin && booking.UserID != userID {
		return models.Booking{}, ErrNotBookingOwner
	}
	if !models.CanTransition(booking.Status, models.StatusCancelled) {
		return models.Booking{}, ErrStatusConflict
	}

	updated, err := s.store.UpdateBookingStatus(booking.ID, models.StatusCancelled)
	if err != nil {
		return models.Booking{}, err
	}

	if _, err := s.ledger.Release(booking.VenueID, booking.Date, ticketCount(booking.Tickets)); err != nil {
		s.logger.Error().Err(err).Str("reference", reference).Msg("release units on cancel")
	}

	s.publish(events.EventBookingCancelled, updated)
	return updated, nil
}

// CompleteBooking moves a confirmed booking to completed. Triggered by the
// completion sweeper once the visit date has passed.
func (s *BookingService) CompleteBooking(ctx context.Context, id int64) (models.Booking, error) {
	booking, err := s.store.GetBooking(id)
	if err != nil {
		return models.Booking{}, err
	}
	if !models.CanTransition(booking.Status, models.StatusCompleted) {
		return models.Booking{}, ErrStatusConflict
	}

	updated, err := s.store.UpdateBookingStatus(id, models.StatusCompleted)
	if err != nil {
		return models.Booking{}, err
	}

	s.publish(events.EventBookingCompleted, updated)
	return updated, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) []models.BookingWithVenue {
	return s.store.BookingsByUser(userID)
}

func (s *BookingService) ListAllBookings(ctx context.Context) []models.Booking {
	return s.store.ListBookings()
}

func (s *BookingService) GetBookingByReference(ctx context.Context, reference string) (models.Booking, error) {
	return s.store.GetBookingByReference(reference)
}

func (s *BookingService) validateDate(day string) error {
	date, err := time.Parse(models.DateLayout, day)
	if err != nil {
		return ErrInvalidDate
	}
	if date.Before(time.Now().AddDate(0, 0, -1)) {
		return ErrPastDate
	}
	if date.After(time.Now().AddDate(0, 0, s.maxAdvanceDays)) {
		return ErrDateTooFar
	}
	return nil
}

func (s *BookingService) publish(eventType string, b models.Booking) {
	if s.bus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   b.ID,
		Reference:   b.Reference,
		UserID:      b.UserID,
		VenueID:     b.VenueID,
		Date:        b.Date,
		TotalAmount: b.TotalAmount,
		Status:      b.Status,
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", b.ID).Msg("publish event error")
	}
}

func ticketCount(tickets map[int64]int64) int64 {
	var n int64
	for _, qty := range tickets {
		n += qty
	}
	return n
}

// ensure the payment service satisfies the verifier seam.
var _ PaymentVerifier = (*payment.Service)(nil)
