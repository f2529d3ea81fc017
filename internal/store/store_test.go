package store

import (
	"sync"
	"testing"
	"time"

	"venuebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(nil)
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)

	u1, err := s.CreateUser(models.User{Username: "alice", PasswordHash: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u1.ID)

	u2, err := s.CreateUser(models.User{Username: "bob", PasswordHash: "y"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), u2.ID)

	_, err = s.CreateUser(models.User{Username: "alice"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, got.ID)

	_, err = s.GetUser(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVenueCRUD(t *testing.T) {
	s := newTestStore(t)

	v := s.CreateVenue(models.Venue{Name: "Zoo", IsActive: true})
	assert.Equal(t, int64(1), v.ID)

	t.Run("PartialUpdate", func(t *testing.T) {
		name := "City Zoo"
		rating := 4.2
		updated, err := s.UpdateVenue(v.ID, VenueUpdate{Name: &name, Rating: &rating})
		require.NoError(t, err)
		assert.Equal(t, "City Zoo", updated.Name)
		assert.Equal(t, 4.2, updated.Rating)
		assert.True(t, updated.IsActive, "untouched fields keep their value")
	})

	t.Run("SoftDisable", func(t *testing.T) {
		active := false
		updated, err := s.UpdateVenue(v.ID, VenueUpdate{IsActive: &active})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
	})

	t.Run("UnknownVenue", func(t *testing.T) {
		_, err := s.UpdateVenue(42, VenueUpdate{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTicketTypesAndDates(t *testing.T) {
	s := newTestStore(t)
	v := s.CreateVenue(models.Venue{Name: "Aquarium", IsActive: true})

	tt, err := s.CreateTicketType(models.TicketType{VenueID: v.ID, Name: "Adult", Price: 29.99})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tt.ID)

	_, err = s.CreateTicketType(models.TicketType{VenueID: 42, Name: "Adult", Price: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	d, err := s.CreateAvailableDate(models.AvailableDate{VenueID: v.ID, Date: "2026-09-10", Capacity: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(50), d.Capacity)

	_, err = s.CreateAvailableDate(models.AvailableDate{VenueID: v.ID, Date: "2026-09-10", Capacity: 10})
	assert.ErrorIs(t, err, ErrDateExists, "one record per (venue, date)")

	t.Run("DefaultCapacity", func(t *testing.T) {
		d2, err := s.CreateAvailableDate(models.AvailableDate{VenueID: v.ID, Date: "2026-09-11"})
		require.NoError(t, err)
		assert.Equal(t, int64(models.DefaultCapacity), d2.Capacity)
	})

	t.Run("VenueDetails", func(t *testing.T) {
		details, err := s.VenueDetails(v.ID)
		require.NoError(t, err)
		assert.Len(t, details.TicketTypes, 1)
		assert.Equal(t, []string{"2026-09-10", "2026-09-11"}, details.AvailableDates)
	})
}

func TestReserveDate(t *testing.T) {
	s := newTestStore(t)
	v := s.CreateVenue(models.Venue{Name: "Park", IsActive: true})
	_, err := s.CreateAvailableDate(models.AvailableDate{VenueID: v.ID, Date: "2026-09-10", Capacity: 2})
	require.NoError(t, err)

	d, err := s.ReserveDate(v.ID, "2026-09-10", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Booked)

	d, err = s.ReserveDate(v.ID, "2026-09-10", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.Booked)

	_, err = s.ReserveDate(v.ID, "2026-09-10", 1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	entry, ok := s.DateEntry(v.ID, "2026-09-10")
	require.True(t, ok)
	assert.Equal(t, int64(2), entry.Booked, "failed reserve must not mutate")

	t.Run("UnknownDate", func(t *testing.T) {
		_, err := s.ReserveDate(v.ID, "2026-12-24", 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Release", func(t *testing.T) {
		d, err := s.ReleaseDate(v.ID, "2026-09-10", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), d.Booked)

		_, err = s.ReleaseDate(v.ID, "2026-09-10", 5)
		assert.ErrorIs(t, err, ErrNothingToRelease)
	})
}

func TestReserveDateConcurrent(t *testing.T) {
	s := newTestStore(t)
	v := s.CreateVenue(models.Venue{Name: "Park", IsActive: true})
	_, err := s.CreateAvailableDate(models.AvailableDate{VenueID: v.ID, Date: "2026-09-10", Capacity: 100})
	require.NoError(t, err)

	const attempts = 200
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ReserveDate(v.ID, "2026-09-10", 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, succeeded)
	entry, ok := s.DateEntry(v.ID, "2026-09-10")
	require.True(t, ok)
	assert.Equal(t, int64(100), entry.Booked)
	assert.LessOrEqual(t, entry.Booked, entry.Capacity)
}

func TestBookings(t *testing.T) {
	s := newTestStore(t)
	v := s.CreateVenue(models.Venue{Name: "Museum", IsActive: true})
	user, err := s.CreateUser(models.User{Username: "carol"})
	require.NoError(t, err)

	b1, err := s.CreateBooking(models.Booking{
		Reference: "BKAAAA1111",
		UserID:    user.ID,
		VenueID:   v.ID,
		Date:      "2026-09-10",
		Tickets:   map[int64]int64{1: 2},
		Status:    models.StatusConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), b1.ID)
	assert.False(t, b1.CreatedAt.IsZero())

	_, err = s.CreateBooking(models.Booking{Reference: "BKAAAA1111", UserID: user.ID})
	assert.ErrorIs(t, err, ErrReferenceTaken)

	got, err := s.GetBookingByReference("BKAAAA1111")
	require.NoError(t, err)
	assert.Equal(t, b1.ID, got.ID)

	t.Run("ByUserWithVenueName", func(t *testing.T) {
		list := s.BookingsByUser(user.ID)
		require.Len(t, list, 1)
		assert.Equal(t, "Museum", list[0].VenueName)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		updated, err := s.UpdateBookingStatus(b1.ID, models.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, updated.Status)

		_, err = s.UpdateBookingStatus(999, models.StatusCancelled)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSeedDefaultCatalog(t *testing.T) {
	now := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	s := newTestStore(t)
	require.NoError(t, s.Seed(DefaultCatalog(now)))

	venues := s.ListVenueDetails()
	require.Len(t, venues, 6)
	for _, v := range venues {
		assert.Len(t, v.TicketTypes, 3)
		assert.Equal(t, []string{"2026-09-10", "2026-09-15", "2026-09-20", "2026-09-25"}, v.AvailableDates)
		assert.True(t, v.IsActive)
	}

	t.Run("Deterministic", func(t *testing.T) {
		s2 := newTestStore(t)
		require.NoError(t, s2.Seed(DefaultCatalog(now)))
		assert.Equal(t, s.ListVenueDetails(), s2.ListVenueDetails())
	})
}
