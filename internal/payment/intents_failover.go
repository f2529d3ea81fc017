package payment

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// FailoverIntentStore writes through the primary (redis) registry and falls
// back to memory when it is down, probing for recovery once a minute.
type FailoverIntentStore struct {
	primary   IntentStore
	fallback  IntentStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverIntentStore(primary, fallback IntentStore, logger *zerolog.Logger) *FailoverIntentStore {
	return &FailoverIntentStore{primary: primary, fallback: fallback, logger: logger}
}

func (s *FailoverIntentStore) Save(ctx context.Context, rec *IntentRecord) error {
	if s.tryPrimary() {
		err := s.primary.Save(ctx, rec)
		if err == nil {
			return nil
		}
		s.markDown(err)
	}
	return s.fallback.Save(ctx, rec)
}

func (s *FailoverIntentStore) Get(ctx context.Context, id string) (*IntentRecord, error) {
	if s.tryPrimary() {
		rec, err := s.primary.Get(ctx, id)
		if err == nil || errors.Is(err, ErrIntentNotFound) {
			return rec, err
		}
		s.markDown(err)
	}
	return s.fallback.Get(ctx, id)
}

func (s *FailoverIntentStore) MarkPaid(ctx context.Context, id string) error {
	if s.tryPrimary() {
		err := s.primary.MarkPaid(ctx, id)
		if err == nil || errors.Is(err, ErrIntentNotFound) {
			return err
		}
		s.markDown(err)
	}
	return s.fallback.MarkPaid(ctx, id)
}

func (s *FailoverIntentStore) tryPrimary() bool {
	if !s.isDown.Load() {
		return true
	}
	// Probe the primary again after a minute of being down.
	if time.Since(time.Unix(s.lastCheck.Load(), 0)) > time.Minute {
		s.isDown.Store(false)
		return true
	}
	return false
}

func (s *FailoverIntentStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("primary intent store failed, falling back to memory")
	s.isDown.Store(true)
	s.lastCheck.Store(time.Now().Unix())
}
