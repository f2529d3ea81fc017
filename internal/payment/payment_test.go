package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venuebook/internal/events"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestMockProviderFormat(t *testing.T) {
	p := NewMockProvider()

	intent, err := p.CreateIntent(context.Background(), 49.98)
	require.NoError(t, err)

	assert.Regexp(t, `^mock_pi_[0-9A-Za-z]{24}$`, intent.ID)
	assert.Regexp(t, `^mock_cs_[0-9A-Za-z]{32}$`, intent.ClientSecret)
	assert.True(t, intent.Mock)

	second, err := p.CreateIntent(context.Background(), 49.98)
	require.NoError(t, err)
	assert.NotEqual(t, intent.ID, second.ID)
}

func TestGatewayProvider(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			assert.Equal(t, "/v1/payment_intents", r.URL.Path)
			assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"pi_123","client_secret":"cs_123"}`))
		}))
		defer srv.Close()

		p := NewGatewayProvider(srv.URL, "sk_test", time.Second, testLogger())
		intent, err := p.CreateIntent(context.Background(), 29.99)
		require.NoError(t, err)

		assert.Equal(t, "pi_123", intent.ID)
		assert.Equal(t, "cs_123", intent.ClientSecret)
		assert.False(t, intent.Mock)
		assert.Equal(t, "Bearer sk_test", gotAuth)
	})

	t.Run("ServerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		p := NewGatewayProvider(srv.URL, "sk_test", time.Second, testLogger())
		_, err := p.CreateIntent(context.Background(), 29.99)
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})

	t.Run("Unreachable", func(t *testing.T) {
		p := NewGatewayProvider("http://127.0.0.1:1", "sk_test", time.Second, testLogger())
		_, err := p.CreateIntent(context.Background(), 29.99)
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})
}

func TestFallbackProvider(t *testing.T) {
	gateway := NewGatewayProvider("http://127.0.0.1:1", "sk_test", time.Second, testLogger())
	p := NewFallbackProvider(gateway, NewMockProvider(), events.NewEventBus(), testLogger())

	intent, err := p.CreateIntent(context.Background(), 19.99)
	require.NoError(t, err, "gateway failure is absorbed")
	assert.True(t, intent.Mock)
	assert.Regexp(t, `^mock_pi_`, intent.ID)
}

func TestServiceCreateIntent(t *testing.T) {
	svc := NewService(NewMockProvider(), NewMemoryIntentStore(time.Hour), testLogger())
	ctx := context.Background()

	_, err := svc.CreateIntent(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CreateIntent(ctx, -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	intent, err := svc.CreateIntent(ctx, 79.97)
	require.NoError(t, err)
	assert.NotEmpty(t, intent.ID)
}

func TestServiceVerify(t *testing.T) {
	store := NewMemoryIntentStore(time.Hour)
	svc := NewService(NewMockProvider(), store, testLogger())
	ctx := context.Background()

	intent, err := svc.CreateIntent(ctx, 79.97)
	require.NoError(t, err)

	t.Run("Unconfirmed", func(t *testing.T) {
		err := svc.Verify(ctx, intent.ID, 79.97)
		assert.ErrorIs(t, err, ErrNotConfirmed)
	})

	require.NoError(t, svc.ConfirmMock(ctx, intent.ID))

	t.Run("Confirmed", func(t *testing.T) {
		assert.NoError(t, svc.Verify(ctx, intent.ID, 79.97))
	})

	t.Run("RoundingTolerated", func(t *testing.T) {
		assert.NoError(t, svc.Verify(ctx, intent.ID, 79.972))
	})

	t.Run("AmountMismatch", func(t *testing.T) {
		err := svc.Verify(ctx, intent.ID, 29.99)
		assert.ErrorIs(t, err, ErrAmountMismatch)
	})

	t.Run("UnknownIntent", func(t *testing.T) {
		err := svc.Verify(ctx, "pi_missing", 79.97)
		assert.ErrorIs(t, err, ErrIntentNotFound)
	})
}

func TestMemoryIntentStoreTTL(t *testing.T) {
	store := NewMemoryIntentStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &IntentRecord{ID: "pi_ttl", Amount: 1}))

	_, err := store.Get(ctx, "pi_ttl")
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, err = store.Get(ctx, "pi_ttl")
	assert.ErrorIs(t, err, ErrIntentNotFound)
	assert.ErrorIs(t, store.MarkPaid(ctx, "pi_ttl"), ErrIntentNotFound)
}

func TestRedisIntentStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisIntentStore(client, time.Hour)
	ctx := context.Background()

	rec := &IntentRecord{ID: "pi_redis", Amount: 29.99, Mock: true, CreatedAt: time.Now()}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "pi_redis")
	require.NoError(t, err)
	assert.Equal(t, 29.99, got.Amount)
	assert.False(t, got.Paid)

	require.NoError(t, store.MarkPaid(ctx, "pi_redis"))
	got, err = store.Get(ctx, "pi_redis")
	require.NoError(t, err)
	assert.True(t, got.Paid)

	t.Run("Missing", func(t *testing.T) {
		_, err := store.Get(ctx, "pi_other")
		assert.ErrorIs(t, err, ErrIntentNotFound)
		assert.ErrorIs(t, store.MarkPaid(ctx, "pi_other"), ErrIntentNotFound)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &IntentRecord{ID: "pi_short", Amount: 1}))
		mr.FastForward(2 * time.Hour)
		_, err := store.Get(ctx, "pi_short")
		assert.ErrorIs(t, err, ErrIntentNotFound)
	})
}

func TestFailoverIntentStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	primary := NewRedisIntentStore(client, time.Hour)
	fallback := NewMemoryIntentStore(time.Hour)
	store := NewFailoverIntentStore(primary, fallback, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &IntentRecord{ID: "pi_1", Amount: 10}))
	got, err := store.Get(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, float64(10), got.Amount)

	t.Run("NotFoundPassesThrough", func(t *testing.T) {
		_, err := store.Get(ctx, "pi_none")
		assert.ErrorIs(t, err, ErrIntentNotFound, "a miss on a healthy primary is not a failure")
	})

	t.Run("FailsOverToMemory", func(t *testing.T) {
		mr.Close()

		require.NoError(t, store.Save(ctx, &IntentRecord{ID: "pi_2", Amount: 20}))
		got, err := store.Get(ctx, "pi_2")
		require.NoError(t, err)
		assert.Equal(t, float64(20), got.Amount)

		require.NoError(t, store.MarkPaid(ctx, "pi_2"))
		got, err = store.Get(ctx, "pi_2")
		require.NoError(t, err)
		assert.True(t, got.Paid)
	})
}
