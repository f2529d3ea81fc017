package payment

import (
	"context"

	"venuebook/internal/events"
	"venuebook/internal/metrics"

	"github.com/rs/zerolog"
)

// FallbackProvider tries the gateway first and degrades to mock handles when
// it is unreachable or misconfigured. Gateway failure is recovered locally
// and never surfaced to the caller as an error.
type FallbackProvider struct {
	gateway Provider
	mock    Provider
	bus     *events.EventBus
	logger  *zerolog.Logger
}

func NewFallbackProvider(gateway, mock Provider, bus *events.EventBus, logger *zerolog.Logger) *FallbackProvider {
	return &FallbackProvider{gateway: gateway, mock: mock, bus: bus, logger: logger}
}

func (p *FallbackProvider) CreateIntent(ctx context.Context, amount float64) (*Intent, error) {
	intent, err := p.gateway.CreateIntent(ctx, amount)
	if err == nil {
		return intent, nil
	}

	p.logger.Warn().Err(err).Float64("amount", amount).Msg("gateway intent failed, falling back to mock")
	metrics.IncPaymentFallback()
	_ = p.bus.PublishJSON(events.EventPaymentFallback, map[string]float64{"amount": amount})

	return p.mock.CreateIntent(ctx, amount)
}
