package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisIntentStore keeps intents in redis so a restart does not orphan
// handles the client is still holding. TTL is enforced by redis itself.
type RedisIntentStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIntentStore(client *redis.Client, ttl time.Duration) *RedisIntentStore {
	return &RedisIntentStore{client: client, ttl: ttl}
}

func intentKey(id string) string {
	return fmt.Sprintf("payment_intent:%s", id)
}

func (s *RedisIntentStore) Save(ctx context.Context, rec *IntentRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, intentKey(rec.ID), data, s.ttl).Err()
}

func (s *RedisIntentStore) Get(ctx context.Context, id string) (*IntentRecord, error) {
	data, err := s.client.Get(ctx, intentKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec IntentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisIntentStore) MarkPaid(ctx context.Context, id string) error {
	key := intentKey(id)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrIntentNotFound
	}
	if err != nil {
		return err
	}

	var rec IntentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	rec.Paid = true

	updated, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	// KeepTTL preserves whatever lifetime the intent had left.
	return s.client.Set(ctx, key, updated, redis.KeepTTL).Err()
}
