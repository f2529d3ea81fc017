package payment

import (
	"context"
	"sync"
	"time"
)

// MemoryIntentStore keeps intents in process memory with a TTL. It is the
// default registry and the fallback behind the redis one.
type MemoryIntentStore struct {
	intents sync.Map
	ttl     time.Duration
}

type memoryIntentEntry struct {
	rec       IntentRecord
	expiresAt time.Time
}

func NewMemoryIntentStore(ttl time.Duration) *MemoryIntentStore {
	return &MemoryIntentStore{ttl: ttl}
}

func (s *MemoryIntentStore) Save(ctx context.Context, rec *IntentRecord) error {
	s.intents.Store(rec.ID, &memoryIntentEntry{rec: *rec, expiresAt: time.Now().Add(s.ttl)})
	return nil
}

func (s *MemoryIntentStore) Get(ctx context.Context, id string) (*IntentRecord, error) {
	val, ok := s.intents.Load(id)
	if !ok {
		return nil, ErrIntentNotFound
	}

	entry := val.(*memoryIntentEntry)
	if time.Now().After(entry.expiresAt) {
		s.intents.Delete(id)
		return nil, ErrIntentNotFound
	}

	rec := entry.rec
	return &rec, nil
}

func (s *MemoryIntentStore) MarkPaid(ctx context.Context, id string) error {
	val, ok := s.intents.Load(id)
	if !ok {
		return ErrIntentNotFound
	}

	entry := val.(*memoryIntentEntry)
	if time.Now().After(entry.expiresAt) {
		s.intents.Delete(id)
		return ErrIntentNotFound
	}

	updated := entry.rec
	updated.Paid = true
	s.intents.Store(id, &memoryIntentEntry{rec: updated, expiresAt: entry.expiresAt})
	return nil
}
