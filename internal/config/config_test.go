package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Cache.AssetsTTLSeconds)
	assert.Equal(t, 60, cfg.Cache.PoolsTTLSeconds)
	assert.Equal(t, int64(10000), cfg.Rpc.ActivationTimeoutMs)
	assert.Equal(t, int64(1000), cfg.Rpc.ActivationPollIntervalMs)
	assert.Equal(t, "mock", cfg.Executor.Mode)
	assert.Equal(t, "https://stellar.expert/explorer/testnet", cfg.Explorer.BaseURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9090"
cache:
  poolsTtlSeconds: 120
executor:
  mode: "live"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 120, cfg.Cache.PoolsTTLSeconds)
	assert.Equal(t, "live", cfg.Executor.Mode)
	assert.Equal(t, 30, cfg.Cache.AssetsTTLSeconds, "unset fields still default")
}

func TestLoadEnvSettingsDefaults(t *testing.T) {
	t.Setenv("RWASYNC_STELLAR_NETWORK", "")
	s, err := LoadEnvSettings()
	require.NoError(t, err)
	assert.Equal(t, "testnet", s.Network)
	assert.Equal(t, "https://horizon-testnet.stellar.org", s.HorizonURL)
	assert.Equal(t, 50, s.DefaultSlippageBps)
}

func TestLoadEnvSettingsRejectsUnknownNetwork(t *testing.T) {
	t.Setenv("RWASYNC_STELLAR_NETWORK", "devnet")
	s, err := LoadEnvSettings()
	require.NoError(t, err)
	assert.Equal(t, "testnet", s.Network, "unknown network falls back to testnet")
}
