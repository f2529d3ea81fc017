package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuebook/internal/api"
	"venuebook/internal/config"
	"venuebook/internal/events"
	"venuebook/internal/export"
	"venuebook/internal/ledger"
	"venuebook/internal/logging"
	"venuebook/internal/metrics"
	"venuebook/internal/payment"
	"venuebook/internal/service"
	"venuebook/internal/store"
	"venuebook/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	st, err := initStore(cfg, logger)
	if err != nil {
		return err
	}

	bus := events.NewEventBus()
	subscribeEventLog(bus, logger)

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	paymentService := initPayments(cfg, redisClient, bus, logger)

	users := service.NewUserService(st, cfg.Auth.BcryptCost, logger)
	if err := users.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	units := ledger.PerBooking
	if cfg.Booking.LedgerUnits == config.LedgerUnitsPerTicket {
		units = ledger.PerTicket
	}
	led := ledger.New(st, units)

	var verifier service.PaymentVerifier
	if !cfg.Payment.SkipVerify {
		verifier = paymentService
	}
	bookings := service.NewBookingService(st, led, verifier, bus, cfg.Booking.MaxAdvanceDays, logger)
	venues := service.NewVenueService(st, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := worker.NewCompletionWorker(st, bookings, worker.RetryPolicy{}, logger)
	sweeper.Start(ctx)

	startMetrics(ctx, cfg, logger)

	server := api.NewServer(cfg, users, venues, bookings, paymentService, export.New(st), logger)
	return serve(ctx, server, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, &logger, closer, nil
}

func initStore(cfg *config.Config, logger *zerolog.Logger) (*store.Store, error) {
	st := store.New(logger)

	catalog := store.DefaultCatalog(time.Now())
	if cfg.Seed.CatalogPath != "" {
		loaded, err := store.LoadCatalog(cfg.Seed.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		catalog = loaded
	}

	if err := st.Seed(catalog); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}
	return st, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

func initPayments(cfg *config.Config, redisClient *redis.Client, bus *events.EventBus, logger *zerolog.Logger) *payment.Service {
	ttl := time.Duration(cfg.Payment.IntentTTLSeconds) * time.Second

	var intents payment.IntentStore = payment.NewMemoryIntentStore(ttl)
	if redisClient != nil {
		intents = payment.NewFailoverIntentStore(
			payment.NewRedisIntentStore(redisClient, ttl),
			payment.NewMemoryIntentStore(ttl),
			logger,
		)
	}

	mock := payment.NewMockProvider()
	var provider payment.Provider = mock
	switch cfg.Payment.Mode {
	case config.PaymentModeGateway:
		provider = payment.NewGatewayProvider(cfg.Payment.GatewayURL, cfg.Payment.GatewayKey,
			time.Duration(cfg.Payment.TimeoutSeconds)*time.Second, logger)
	case config.PaymentModeFallback:
		gateway := payment.NewGatewayProvider(cfg.Payment.GatewayURL, cfg.Payment.GatewayKey,
			time.Duration(cfg.Payment.TimeoutSeconds)*time.Second, logger)
		provider = payment.NewFallbackProvider(gateway, mock, bus, logger)
	}

	return payment.NewService(provider, intents, logger)
}

func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingCancelled,
		events.EventBookingCompleted,
		events.EventPaymentFallback,
	} {
		et := eventType
		bus.Subscribe(et, func(e *events.Event) error {
			logger.Info().Str("event_type", et).RawJSON("payload", e.Payload).Msg("domain event")
			return nil
		})
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func serve(ctx context.Context, server *api.Server, logger *zerolog.Logger) error {
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("API server stopped")
	return nil
}
