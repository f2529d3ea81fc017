package service

import (
	"context"
	"time"

	"venuebook/internal/models"
	"venuebook/internal/store"

	"github.com/rs/zerolog"
)

// VenueService is the admin/catalog surface over the store.
type VenueService struct {
	store  *store.Store
	logger *zerolog.Logger
}

func NewVenueService(s *store.Store, logger *zerolog.Logger) *VenueService {
	return &VenueService{store: s, logger: logger}
}

func (s *VenueService) ListVenues(ctx context.Context) []models.VenueDetails {
	return s.store.ListVenueDetails()
}

func (s *VenueService) GetVenue(ctx context.Context, id int64) (models.VenueDetails, error) {
	return s.store.VenueDetails(id)
}

func (s *VenueService) CreateVenue(ctx context.Context, v models.Venue) models.Venue {
	created := s.store.CreateVenue(v)
	s.logger.Info().Int64("venue_id", created.ID).Str("name", created.Name).Msg("venue created")
	return created
}

func (s *VenueService) UpdateVenue(ctx context.Context, id int64, upd store.VenueUpdate) (models.Venue, error) {
	return s.store.UpdateVenue(id, upd)
}

func (s *VenueService) TicketTypes(ctx context.Context, venueID int64) ([]models.TicketType, error) {
	if _, err := s.store.GetVenue(venueID); err != nil {
		return nil, err
	}
	return s.store.TicketTypesByVenue(venueID), nil
}

func (s *VenueService) AddTicketType(ctx context.Context, venueID int64, name string, price float64) (models.TicketType, error) {
	if price < 0 {
		return models.TicketType{}, ErrNegativePrice
	}
	return s.store.CreateTicketType(models.TicketType{VenueID: venueID, Name: name, Price: price})
}

func (s *VenueService) AvailableDates(ctx context.Context, venueID int64) ([]models.AvailableDate, error) {
	if _, err := s.store.GetVenue(venueID); err != nil {
		return nil, err
	}
	return s.store.DatesByVenue(venueID), nil
}

func (s *VenueService) AddAvailableDate(ctx context.Context, venueID int64, day string, capacity int64) (models.AvailableDate, error) {
	if _, err := time.Parse(models.DateLayout, day); err != nil {
		return models.AvailableDate{}, ErrInvalidDate
	}
	return s.store.CreateAvailableDate(models.AvailableDate{VenueID: venueID, Date: day, Capacity: capacity})
}
