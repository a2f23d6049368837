package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Endpoint modes for the PayGate processor
const (
	ModeTest          = "test"
	ModeLive          = "live"
	ModeAccreditation = "accreditation"
)

// Config holds all adapter configuration. Values load from a YAML file and
// can be overridden by environment variables. The value is read-only after
// Load; endpoint mode is resolved once, never swapped on a live adapter.
type Config struct {
	Logger  LoggerConfig  `yaml:"logger"`
	PayGate PayGateConfig `yaml:"paygate"`
	Stratus StratusConfig `yaml:"stratus"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT" env-default:"false"`
}

// PayGateConfig holds credentials and endpoint selection for the PayGate
// XML processor. The accreditation endpoint routes to the processor's
// fraud-testing environment.
type PayGateConfig struct {
	Client           string `yaml:"client" env:"PAYGATE_CLIENT"`
	Password         string `yaml:"password" env:"PAYGATE_PASSWORD"`
	Mode             string `yaml:"mode" env:"PAYGATE_MODE" env-default:"test"`
	TestURL          string `yaml:"test_url" env:"PAYGATE_TEST_URL" env-default:"https://testserver.paygate.net/Transaction"`
	LiveURL          string `yaml:"live_url" env:"PAYGATE_LIVE_URL" env-default:"https://mars.paygate.net/Transaction"`
	AccreditationURL string `yaml:"accreditation_url" env:"PAYGATE_ACCREDITATION_URL" env-default:"https://accreditation.paygate.net/Transaction"`
	TimeoutSeconds   int    `yaml:"timeout_seconds" env:"PAYGATE_TIMEOUT" env-default:"30"`
}

// StratusConfig holds credentials and routing identifiers for the Stratus
// stored-value processor.
type StratusConfig struct {
	APIKey         string `yaml:"api_key" env:"STRATUS_API_KEY"`
	APISecret      string `yaml:"api_secret" env:"STRATUS_API_SECRET"`
	BaseURL        string `yaml:"base_url" env:"STRATUS_BASE_URL" env-default:"https://sandbox.stratus-sv.com/api/v1"`
	Brand          string `yaml:"brand" env:"STRATUS_BRAND"`
	Location       string `yaml:"location" env:"STRATUS_LOCATION"`
	Terminal       string `yaml:"terminal" env:"STRATUS_TERMINAL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"STRATUS_TIMEOUT" env-default:"30"`
}

// Load reads configuration from the YAML file at path, or from the
// environment alone when path is empty.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.PayGate.Client == "" {
		return nil, fmt.Errorf("PAYGATE_CLIENT is required")
	}
	if cfg.PayGate.Password == "" {
		return nil, fmt.Errorf("PAYGATE_PASSWORD is required")
	}
	switch cfg.PayGate.Mode {
	case ModeTest, ModeLive, ModeAccreditation:
	default:
		return nil, fmt.Errorf("invalid PAYGATE_MODE %q", cfg.PayGate.Mode)
	}

	return &cfg, nil
}

// Endpoint returns the transaction URL for the configured mode
func (c *PayGateConfig) Endpoint() string {
	switch c.Mode {
	case ModeLive:
		return c.LiveURL
	case ModeAccreditation:
		return c.AccreditationURL
	default:
		return c.TestURL
	}
}

// Timeout returns the HTTP timeout as a duration
func (c *PayGateConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the HTTP timeout as a duration
func (c *StratusConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
