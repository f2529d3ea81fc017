package store

import (
	"sync"
	"time"

	"venuebook/internal/models"

	"github.com/rs/zerolog"
)

// Store owns every entity record in process memory. Identifiers are
// monotonically increasing per kind, starting at 1, and are never reused.
// All accessors return copies; callers never hold aliases into the tables.
type Store struct {
	mu sync.RWMutex

	users    map[int64]models.User
	venues   map[int64]models.Venue
	tickets  map[int64]models.TicketType
	dates    map[int64]models.AvailableDate
	bookings map[int64]models.Booking

	userID    int64
	venueID   int64
	ticketID  int64
	dateID    int64
	bookingID int64

	userByName     map[string]int64
	ticketsByVenue map[int64][]int64
	datesByVenue   map[int64][]int64
	dateByVenueDay map[int64]map[string]int64
	bookingsByUser map[int64][]int64
	bookingByRef   map[string]int64

	logger *zerolog.Logger
}

func New(logger *zerolog.Logger) *Store {
	return &Store{
		users:          make(map[int64]models.User),
		venues:         make(map[int64]models.Venue),
		tickets:        make(map[int64]models.TicketType),
		dates:          make(map[int64]models.AvailableDate),
		bookings:       make(map[int64]models.Booking),
		userByName:     make(map[string]int64),
		ticketsByVenue: make(map[int64][]int64),
		datesByVenue:   make(map[int64][]int64),
		dateByVenueDay: make(map[int64]map[string]int64),
		bookingsByUser: make(map[int64][]int64),
		bookingByRef:   make(map[string]int64),
		logger:         logger,
	}
}

// ---- users ----

func (s *Store) CreateUser(u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.userByName[u.Username]; taken {
		return models.User{}, ErrUsernameTaken
	}

	s.userID++
	u.ID = s.userID
	s.users[u.ID] = u
	s.userByName[u.Username] = u.ID
	return u, nil
}

func (s *Store) GetUser(id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByName[username]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[id], nil
}

// ---- venues ----

func (s *Store) CreateVenue(v models.Venue) models.Venue {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.venueID++
	v.ID = s.venueID
	s.venues[v.ID] = v
	return v
}

func (s *Store) GetVenue(id int64) (models.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.venues[id]
	if !ok {
		return models.Venue{}, ErrNotFound
	}
	return v, nil
}

func (s *Store) ListVenues() []models.Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Venue, 0, len(s.venues))
	for id := int64(1); id <= s.venueID; id++ {
		if v, ok := s.venues[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// VenueUpdate carries partial venue fields; nil means leave unchanged.
type VenueUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Image       *string  `json:"image"`
	Rating      *float64 `json:"rating"`
	IsActive    *bool    `json:"is_active"`
}

func (s *Store) UpdateVenue(id int64, upd VenueUpdate) (models.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.venues[id]
	if !ok {
		return models.Venue{}, ErrNotFound
	}

	if upd.Name != nil {
		v.Name = *upd.Name
	}
	if upd.Description != nil {
		v.Description = *upd.Description
	}
	if upd.Address != nil {
		v.Address = *upd.Address
	}
	if upd.Image != nil {
		v.Image = *upd.Image
	}
	if upd.Rating != nil {
		v.Rating = *upd.Rating
	}
	if upd.IsActive != nil {
		v.IsActive = *upd.IsActive
	}

	s.venues[id] = v
	return v, nil
}

// ---- ticket types ----

func (s *Store) CreateTicketType(t models.TicketType) (models.TicketType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.venues[t.VenueID]; !ok {
		return models.TicketType{}, ErrNotFound
	}

	s.ticketID++
	t.ID = s.ticketID
	s.tickets[t.ID] = t
	s.ticketsByVenue[t.VenueID] = append(s.ticketsByVenue[t.VenueID], t.ID)
	return t, nil
}

func (s *Store) GetTicketType(id int64) (models.TicketType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return models.TicketType{}, ErrNotFound
	}
	return t, nil
}

func (s *Store) TicketTypesByVenue(venueID int64) []models.TicketType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticketTypesLocked(venueID)
}

func (s *Store) ticketTypesLocked(venueID int64) []models.TicketType {
	ids := s.ticketsByVenue[venueID]
	out := make([]models.TicketType, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.tickets[id])
	}
	return out
}

// ---- available dates ----

func (s *Store) CreateAvailableDate(d models.AvailableDate) (models.AvailableDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.venues[d.VenueID]; !ok {
		return models.AvailableDate{}, ErrNotFound
	}
	if byDay, ok := s.dateByVenueDay[d.VenueID]; ok {
		if _, exists := byDay[d.Date]; exists {
			return models.AvailableDate{}, ErrDateExists
		}
	}

	if d.Capacity <= 0 {
		d.Capacity = models.DefaultCapacity
	}

	s.dateID++
	d.ID = s.dateID
	s.dates[d.ID] = d
	s.datesByVenue[d.VenueID] = append(s.datesByVenue[d.VenueID], d.ID)
	if s.dateByVenueDay[d.VenueID] == nil {
		s.dateByVenueDay[d.VenueID] = make(map[string]int64)
	}
	s.dateByVenueDay[d.VenueID][d.Date] = d.ID
	return d, nil
}

func (s *Store) DatesByVenue(venueID int64) []models.AvailableDate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datesLocked(venueID)
}

func (s *Store) datesLocked(venueID int64) []models.AvailableDate {
	ids := s.datesByVenue[venueID]
	out := make([]models.AvailableDate, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.dates[id])
	}
	return out
}

// DateEntry returns the ledger record for a (venue, date) pair, if any.
func (s *Store) DateEntry(venueID int64, day string) (models.AvailableDate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDay, ok := s.dateByVenueDay[venueID]
	if !ok {
		return models.AvailableDate{}, false
	}
	id, ok := byDay[day]
	if !ok {
		return models.AvailableDate{}, false
	}
	return s.dates[id], true
}

// ReserveDate is the single atomic check-then-increment for capacity.
// It fails without mutating anything when the date is unknown or the
// requested units would overflow capacity.
func (s *Store) ReserveDate(venueID int64, day string, units int64) (models.AvailableDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDay, ok := s.dateByVenueDay[venueID]
	if !ok {
		return models.AvailableDate{}, ErrNotFound
	}
	id, ok := byDay[day]
	if !ok {
		return models.AvailableDate{}, ErrNotFound
	}

	d := s.dates[id]
	if d.Booked+units > d.Capacity {
		return models.AvailableDate{}, ErrCapacityExceeded
	}

	d.Booked += units
	s.dates[id] = d
	return d, nil
}

// ReleaseDate returns previously reserved units, e.g. on cancellation.
func (s *Store) ReleaseDate(venueID int64, day string, units int64) (models.AvailableDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDay, ok := s.dateByVenueDay[venueID]
	if !ok {
		return models.AvailableDate{}, ErrNotFound
	}
	id, ok := byDay[day]
	if !ok {
		return models.AvailableDate{}, ErrNotFound
	}

	d := s.dates[id]
	if d.Booked-units < 0 {
		return models.AvailableDate{}, ErrNothingToRelease
	}

	d.Booked -= units
	s.dates[id] = d
	return d, nil
}

// ---- bookings ----

func (s *Store) CreateBooking(b models.Booking) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.bookingByRef[b.Reference]; taken {
		return models.Booking{}, ErrReferenceTaken
	}

	s.bookingID++
	b.ID = s.bookingID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	s.bookings[b.ID] = b
	s.bookingByRef[b.Reference] = b.ID
	s.bookingsByUser[b.UserID] = append(s.bookingsByUser[b.UserID], b.ID)
	return b, nil
}

func (s *Store) GetBooking(id int64) (models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	return b, nil
}

func (s *Store) GetBookingByReference(ref string) (models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bookingByRef[ref]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	return s.bookings[id], nil
}

func (s *Store) ListBookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Booking, 0, len(s.bookings))
	for id := int64(1); id <= s.bookingID; id++ {
		if b, ok := s.bookings[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) BookingsByUser(userID int64) []models.BookingWithVenue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.bookingsByUser[userID]
	out := make([]models.BookingWithVenue, 0, len(ids))
	for _, id := range ids {
		b := s.bookings[id]
		name := "Unknown Venue"
		if v, ok := s.venues[b.VenueID]; ok {
			name = v.Name
		}
		out = append(out, models.BookingWithVenue{Booking: b, VenueName: name})
	}
	return out
}

func (s *Store) UpdateBookingStatus(id int64, status string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, ErrNotFound
	}

	b.Status = status
	s.bookings[id] = b
	return b, nil
}

// ---- assembled views ----

func (s *Store) VenueDetails(id int64) (models.VenueDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.venues[id]
	if !ok {
		return models.VenueDetails{}, ErrNotFound
	}
	return s.venueDetailsLocked(v), nil
}

func (s *Store) ListVenueDetails() []models.VenueDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.VenueDetails, 0, len(s.venues))
	for id := int64(1); id <= s.venueID; id++ {
		if v, ok := s.venues[id]; ok {
			out = append(out, s.venueDetailsLocked(v))
		}
	}
	return out
}

func (s *Store) venueDetailsLocked(v models.Venue) models.VenueDetails {
	dates := s.datesLocked(v.ID)
	days := make([]string, 0, len(dates))
	for _, d := range dates {
		days = append(days, d.Date)
	}
	return models.VenueDetails{
		Venue:          v,
		TicketTypes:    s.ticketTypesLocked(v.ID),
		AvailableDates: days,
	}
}
