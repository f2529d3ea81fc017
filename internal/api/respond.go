package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"venuebook/internal/ledger"
	"venuebook/internal/payment"
	"venuebook/internal/service"
	"venuebook/internal/store"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"message": message})
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrVenueNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrCapacityExceeded),
		errors.Is(err, ledger.ErrDateNotAvailable),
		errors.Is(err, service.ErrStatusConflict),
		errors.Is(err, store.ErrDateExists),
		errors.Is(err, store.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, payment.ErrIntentNotFound),
		errors.Is(err, payment.ErrNotConfirmed),
		errors.Is(err, payment.ErrAmountMismatch):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrNotBookingOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTicketType),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyBooking),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrPastDate),
		errors.Is(err, service.ErrDateTooFar),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, payment.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
