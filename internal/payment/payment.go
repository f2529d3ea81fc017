package payment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrIntentNotFound     = errors.New("payment intent not found")
	ErrNotConfirmed       = errors.New("payment intent not confirmed")
	ErrAmountMismatch     = errors.New("payment amount does not match booking total")
)

// Intent is the handle the client uses to complete a payment.
type Intent struct {
	ID           string  `json:"paymentIntentId"`
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"-"`
	Mock         bool    `json:"mockPayment,omitempty"`
}

// Provider obtains a payment handle for an amount. Which implementation runs
// is a single startup decision, not per-request control flow.
type Provider interface {
	CreateIntent(ctx context.Context, amount float64) (*Intent, error)
}

// IntentRecord is what the registry remembers about an issued intent.
type IntentRecord struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Mock      bool      `json:"mock"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}

// IntentStore keeps issued intents so confirmation and booking-time
// verification can correlate them. Entries expire after the configured TTL.
type IntentStore interface {
	Save(ctx context.Context, rec *IntentRecord) error
	Get(ctx context.Context, id string) (*IntentRecord, error)
	MarkPaid(ctx context.Context, id string) error
}
