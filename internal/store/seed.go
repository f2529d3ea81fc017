package store

import (
	"fmt"
	"os"
	"time"

	"venuebook/internal/models"

	"gopkg.in/yaml.v2"
)

// Catalog is the seed data applied at process start. State is process-memory
// only, so every start re-creates the same catalog.
type Catalog struct {
	Venues []CatalogVenue `yaml:"venues"`
}

type CatalogVenue struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Address     string              `yaml:"address"`
	Image       string              `yaml:"image"`
	Rating      float64             `yaml:"rating"`
	TicketTypes []CatalogTicketType `yaml:"ticket_types"`
	Dates       []CatalogDate       `yaml:"dates"`
}

type CatalogTicketType struct {
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

type CatalogDate struct {
	Date     string `yaml:"date"`
	Capacity int64  `yaml:"capacity"`
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	return c, nil
}

// DefaultCatalog returns the built-in sample venues: six venues, each with
// three ticket types and four dates in the current month (capacity 100).
func DefaultCatalog(now time.Time) Catalog {
	venues := []CatalogVenue{
		{
			Name:        "Aqua Paradise Water Park",
			Description: "Experience the thrill of 15 water slides, wave pools, and lazy rivers at the largest water park in the region.",
			Address:     "123 Splash Avenue, Watertown",
			Image:       "/images/water-park.svg",
			Rating:      4.5,
		},
		{
			Name:        "Wildlife Kingdom Zoo",
			Description: "Discover over 500 species across 5 unique ecosystems. Feed the giraffes and watch our world-famous penguin parade.",
			Address:     "456 Safari Road, Animalburg",
			Image:       "/images/zoo.svg",
			Rating:      4.8,
		},
		{
			Name:        "Adventure Theme Park",
			Description: "Hold on tight for the fastest roller coasters and most extreme thrill rides in the country.",
			Address:     "789 Coaster Blvd, Thrill City",
			Image:       "/images/theme-park.svg",
			Rating:      4.7,
		},
		{
			Name:        "Oceanic Aquarium",
			Description: "Journey through underwater tunnels and see thousands of marine species, including the rare giant squid.",
			Address:     "321 Ocean Drive, Coastal Heights",
			Image:       "/images/aquarium.svg",
			Rating:      4.6,
		},
		{
			Name:        "Historical Museum Complex",
			Description: "Travel through time with interactive exhibits spanning prehistoric to modern eras across 5 connected buildings.",
			Address:     "555 History Lane, Oldtown",
			Image:       "/images/museum.svg",
			Rating:      4.9,
		},
		{
			Name:        "Botanical Gardens",
			Description: "Stroll through 20 themed gardens featuring rare plants from around the world and a spectacular butterfly pavilion.",
			Address:     "888 Blossom Way, Greenfield",
			Image:       "/images/garden.svg",
			Rating:      4.7,
		},
	}

	ticketTypes := []CatalogTicketType{
		{Name: "Adult", Price: 29.99},
		{Name: "Child (4-12)", Price: 19.99},
		{Name: "Senior (65+)", Price: 22.99},
	}

	var dates []CatalogDate
	for _, day := range []int{10, 15, 20, 25} {
		date := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC)
		dates = append(dates, CatalogDate{Date: date.Format(models.DateLayout), Capacity: models.DefaultCapacity})
	}

	for i := range venues {
		venues[i].TicketTypes = ticketTypes
		venues[i].Dates = dates
	}

	return Catalog{Venues: venues}
}

// Seed populates the store from a catalog. It is meant for a fresh store;
// venue IDs are allocated in catalog order so seeding is deterministic.
func (s *Store) Seed(catalog Catalog) error {
	for _, cv := range catalog.Venues {
		venue := s.CreateVenue(models.Venue{
			Name:        cv.Name,
			Description: cv.Description,
			Address:     cv.Address,
			Image:       cv.Image,
			Rating:      cv.Rating,
			IsActive:    true,
		})

		for _, tt := range cv.TicketTypes {
			if _, err := s.CreateTicketType(models.TicketType{
				VenueID: venue.ID,
				Name:    tt.Name,
				Price:   tt.Price,
			}); err != nil {
				return fmt.Errorf("seed ticket type %q: %w", tt.Name, err)
			}
		}

		for _, d := range cv.Dates {
			if _, err := s.CreateAvailableDate(models.AvailableDate{
				VenueID:  venue.ID,
				Date:     d.Date,
				Capacity: d.Capacity,
			}); err != nil {
				return fmt.Errorf("seed date %s for %q: %w", d.Date, cv.Name, err)
			}
		}
	}

	if s.logger != nil {
		s.logger.Info().Int("venues", len(catalog.Venues)).Msg("store seeded")
	}
	return nil
}
