package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"venuebook/internal/service"
)

type createBookingRequest struct {
	VenueID         int64             `json:"venue_id"`
	Date            string            `json:"date"`
	Tickets         map[int64]int64   `json:"tickets"`
	CustomerDetails map[string]string `json:"customer_details"`
	PaymentIntentID string            `json:"payment_intent_id"`
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	writeJSON(w, http.StatusOK, s.bookings.ListUserBookings(r.Context(), user.ID))
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), service.CreateBookingInput{
		UserID:          user.ID,
		VenueID:         req.VenueID,
		Date:            req.Date,
		Tickets:         req.Tickets,
		CustomerDetails: req.CustomerDetails,
		PaymentIntentID: req.PaymentIntentID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	booking, err := s.bookings.CancelBooking(r.Context(), r.PathValue("ref"), user.ID, user.Admin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bookings.ListAllBookings(r.Context()))
}

func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.BookingsWorkbook(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("export bookings")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
