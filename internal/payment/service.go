package payment

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// amountTolerance absorbs float rounding when comparing totals (one cent).
const amountTolerance = 0.005

// Service issues payment intents and answers whether an intent covers a
// booking total. The provider and registry are fixed at startup.
type Service struct {
	provider Provider
	intents  IntentStore
	logger   *zerolog.Logger
}

func NewService(provider Provider, intents IntentStore, logger *zerolog.Logger) *Service {
	return &Service{provider: provider, intents: intents, logger: logger}
}

func (s *Service) CreateIntent(ctx context.Context, amount float64) (*Intent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	intent, err := s.provider.CreateIntent(ctx, amount)
	if err != nil {
		return nil, err
	}

	rec := &IntentRecord{
		ID:        intent.ID,
		Amount:    amount,
		Mock:      intent.Mock,
		CreatedAt: time.Now(),
	}
	if err := s.intents.Save(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("intent_id", intent.ID).Msg("save intent record")
		return nil, err
	}

	return intent, nil
}

// ConfirmMock marks a mock intent as paid. Backing for the mock payment
// acknowledgement endpoint.
func (s *Service) ConfirmMock(ctx context.Context, id string) error {
	return s.intents.MarkPaid(ctx, id)
}

// Verify checks that an intent exists, was confirmed, and covers the given
// total. Called by the booking service before capacity is committed.
func (s *Service) Verify(ctx context.Context, id string, total float64) error {
	rec, err := s.intents.Get(ctx, id)
	if err != nil {
		return err
	}
	// Gateway confirmation happens client-side and has no webhook here, so
	// the paid flag is only authoritative for mock intents.
	if rec.Mock && !rec.Paid {
		return ErrNotConfirmed
	}
	if math.Abs(rec.Amount-total) > amountTolerance {
		return ErrAmountMismatch
	}
	return nil
}
