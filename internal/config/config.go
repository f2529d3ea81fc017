package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Redis      RedisConfig      `yaml:"redis"`
	Payment    PaymentConfig    `yaml:"payment"`
	Booking    BookingConfig    `yaml:"booking"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Seed       SeedConfig       `yaml:"seed"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port      int             `yaml:"port"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	AccessTTLMin  int    `yaml:"access_ttl_minutes"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// PaymentConfig selects the payment provider at startup. Mode is one of
// "gateway", "mock" or "fallback" (gateway with mock degradation).
type PaymentConfig struct {
	Mode             string `yaml:"mode"`
	GatewayURL       string `yaml:"gateway_url"`
	GatewayKey       string `yaml:"gateway_key"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	SkipVerify       bool   `yaml:"skip_verify"`
	IntentTTLSeconds int    `yaml:"intent_ttl_seconds"`
}

// BookingConfig holds ledger policy. LedgerUnits decides whether a booking
// consumes one capacity unit or one unit per ticket.
type BookingConfig struct {
	LedgerUnits    string `yaml:"ledger_units"`
	MaxAdvanceDays int    `yaml:"max_advance_days"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type SeedConfig struct {
	CatalogPath string `yaml:"catalog_path"`
}

const (
	LedgerUnitsPerBooking = "per-booking"
	LedgerUnitsPerTicket  = "per-ticket"

	PaymentModeGateway  = "gateway"
	PaymentModeMock     = "mock"
	PaymentModeFallback = "fallback"
)

func Load(configPath string) (*Config, error) {
	// .env is optional; real env always wins.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "CHANGE_ME" {
		return errors.New("auth.jwt_secret is required")
	}

	switch c.Booking.LedgerUnits {
	case LedgerUnitsPerBooking, LedgerUnitsPerTicket:
	default:
		return fmt.Errorf("booking.ledger_units must be %q or %q", LedgerUnitsPerBooking, LedgerUnitsPerTicket)
	}

	switch c.Payment.Mode {
	case PaymentModeGateway, PaymentModeFallback:
		if c.Payment.GatewayURL == "" {
			return fmt.Errorf("payment.gateway_url is required for mode %q", c.Payment.Mode)
		}
	case PaymentModeMock:
	default:
		return fmt.Errorf("unknown payment.mode %q", c.Payment.Mode)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "venuebook"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 20
	}
	if c.Auth.AccessTTLMin == 0 {
		c.Auth.AccessTTLMin = 60
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Auth.AdminUsername == "" {
		c.Auth.AdminUsername = "admin"
	}
	if c.Auth.AdminPassword == "" {
		c.Auth.AdminPassword = "admin"
	}
	if c.Payment.Mode == "" {
		c.Payment.Mode = PaymentModeMock
	}
	if c.Payment.TimeoutSeconds == 0 {
		c.Payment.TimeoutSeconds = 10
	}
	if c.Payment.IntentTTLSeconds == 0 {
		c.Payment.IntentTTLSeconds = 24 * 60 * 60
	}
	if c.Booking.LedgerUnits == "" {
		c.Booking.LedgerUnits = LedgerUnitsPerBooking
	}
	if c.Booking.MaxAdvanceDays == 0 {
		c.Booking.MaxAdvanceDays = 365
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}
