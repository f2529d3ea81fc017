package models

import "time"

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
}

type Venue struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Address     string  `json:"address" yaml:"address"`
	Image       string  `json:"image" yaml:"image"`
	Rating      float64 `json:"rating" yaml:"rating"`
	IsActive    bool    `json:"is_active" yaml:"is_active"`
}

type TicketType struct {
	ID      int64   `json:"id" yaml:"id"`
	VenueID int64   `json:"venue_id" yaml:"venue_id"`
	Name    string  `json:"name" yaml:"name"`
	Price   float64 `json:"price" yaml:"price"`
}

// AvailableDate holds the capacity ledger entry for one (venue, date) pair.
// Dates are calendar days in YYYY-MM-DD form.
type AvailableDate struct {
	ID       int64  `json:"id" yaml:"id"`
	VenueID  int64  `json:"venue_id" yaml:"venue_id"`
	Date     string `json:"date" yaml:"date"`
	Capacity int64  `json:"capacity" yaml:"capacity"`
	Booked   int64  `json:"booked" yaml:"booked"`
}

type Booking struct {
	ID              int64             `json:"id"`
	Reference       string            `json:"booking_id"`
	UserID          int64             `json:"user_id"`
	VenueID         int64             `json:"venue_id"`
	Date            string            `json:"date"`
	Tickets         map[int64]int64   `json:"tickets"`
	TotalAmount     float64           `json:"total_amount"`
	Status          string            `json:"status"`
	CustomerDetails map[string]string `json:"customer_details"`
	CreatedAt       time.Time         `json:"created_at"`
}

// VenueDetails is the venue as the catalog endpoints return it, with its
// ticket types and the dates it accepts bookings on.
type VenueDetails struct {
	Venue
	TicketTypes    []TicketType `json:"ticket_types"`
	AvailableDates []string     `json:"available_dates"`
}

// BookingWithVenue annotates a booking with the venue name for listings.
type BookingWithVenue struct {
	Booking
	VenueName string `json:"venue_name"`
}
