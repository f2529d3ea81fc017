package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GatewayProvider creates payment intents against a real gateway over HTTP.
// Amounts cross the wire in integer minor units.
type GatewayProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zerolog.Logger
}

func NewGatewayProvider(baseURL, apiKey string, timeout time.Duration, logger *zerolog.Logger) *GatewayProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GatewayProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type gatewayIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type gatewayIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

func (p *GatewayProvider) CreateIntent(ctx context.Context, amount float64) (*Intent, error) {
	body, err := json.Marshal(gatewayIntentRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: "inr",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var out gatewayIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGatewayUnavailable, err)
	}
	if out.ID == "" || out.ClientSecret == "" {
		return nil, fmt.Errorf("%w: incomplete intent in response", ErrGatewayUnavailable)
	}

	return &Intent{ID: out.ID, ClientSecret: out.ClientSecret, Amount: amount}, nil
}
