package payment

import (
	"context"
	"crypto/rand"
	"math/big"
)

const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// randomToken returns n characters from the base62 alphabet using crypto/rand.
func randomToken(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process is in no state to
			// serve requests at all.
			panic(err)
		}
		out[i] = tokenAlphabet[idx.Int64()]
	}
	return string(out)
}

// MockProvider issues fake payment handles. Responses carry the mock flag so
// clients know to use the mock confirmation endpoint.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) CreateIntent(ctx context.Context, amount float64) (*Intent, error) {
	return &Intent{
		ID:           "mock_pi_" + randomToken(24),
		ClientSecret: "mock_cs_" + randomToken(32),
		Amount:       amount,
		Mock:         true,
	}, nil
}
