package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PAYGATE_CLIENT", "99000001")
	t.Setenv("PAYGATE_PASSWORD", "secret")
	t.Setenv("PAYGATE_MODE", "live")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "99000001", cfg.PayGate.Client)
	assert.Equal(t, "live", cfg.PayGate.Mode)
	assert.Equal(t, cfg.PayGate.LiveURL, cfg.PayGate.Endpoint())
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_RequiresCredentials(t *testing.T) {
	t.Setenv("PAYGATE_CLIENT", "")
	t.Setenv("PAYGATE_PASSWORD", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYGATE_CLIENT")
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	t.Setenv("PAYGATE_CLIENT", "99000001")
	t.Setenv("PAYGATE_PASSWORD", "secret")
	t.Setenv("PAYGATE_MODE", "staging")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYGATE_MODE")
}

func TestEndpoint_ModeSelection(t *testing.T) {
	cfg := PayGateConfig{
		Mode:             ModeTest,
		TestURL:          "https://t.example/Transaction",
		LiveURL:          "https://l.example/Transaction",
		AccreditationURL: "https://a.example/Transaction",
	}

	assert.Equal(t, "https://t.example/Transaction", cfg.Endpoint())

	cfg.Mode = ModeAccreditation
	assert.Equal(t, "https://a.example/Transaction", cfg.Endpoint())

	cfg.Mode = ModeLive
	assert.Equal(t, "https://l.example/Transaction", cfg.Endpoint())
}
