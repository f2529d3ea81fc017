package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
auth:
  jwt_secret: test-secret
`))
	require.NoError(t, err)

	assert.Equal(t, "venuebook", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Auth.AccessTTLMin)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, PaymentModeMock, cfg.Payment.Mode)
	assert.Equal(t, 24*60*60, cfg.Payment.IntentTTLSeconds)
	assert.Equal(t, LedgerUnitsPerBooking, cfg.Booking.LedgerUnits)
	assert.Equal(t, 365, cfg.Booking.MaxAdvanceDays)
	assert.False(t, cfg.Payment.SkipVerify, "payment verification is on unless switched off")
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "from-env")
	t.Setenv("TEST_REDIS_ADDR", "redis:6379")

	cfg, err := Load(writeConfig(t, `
auth:
  jwt_secret: ${TEST_JWT_SECRET}
redis:
  address: ${TEST_REDIS_ADDR}
`))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.Auth.JWTSecret = "s"
		c.applyDefaults()
		return c
	}

	t.Run("Valid", func(t *testing.T) {
		c := base()
		assert.NoError(t, c.Validate())
	})

	t.Run("MissingSecret", func(t *testing.T) {
		c := base()
		c.Auth.JWTSecret = ""
		assert.Error(t, c.Validate())

		c.Auth.JWTSecret = "CHANGE_ME"
		assert.Error(t, c.Validate(), "placeholder secret is rejected")
	})

	t.Run("BadLedgerUnits", func(t *testing.T) {
		c := base()
		c.Booking.LedgerUnits = "per-seat"
		assert.Error(t, c.Validate())
	})

	t.Run("GatewayNeedsURL", func(t *testing.T) {
		c := base()
		c.Payment.Mode = PaymentModeGateway
		assert.Error(t, c.Validate())

		c.Payment.GatewayURL = "https://gateway.example.com"
		assert.NoError(t, c.Validate())

		c.Payment.Mode = PaymentModeFallback
		c.Payment.GatewayURL = ""
		assert.Error(t, c.Validate())
	})

	t.Run("UnknownPaymentMode", func(t *testing.T) {
		c := base()
		c.Payment.Mode = "cash"
		assert.Error(t, c.Validate())
	})
}
