package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_ConservativeIsActive(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "conservative", cfg.Active)
	profile, ok := cfg.Profiles["conservative"]
	require.True(t, ok)
	assert.Equal(t, 200, profile.Safety.MaxLatencyMs)
	assert.Equal(t, 3.5, profile.Safety.MaxVolatilityPct)
	assert.Equal(t, 850, profile.Risk.MaxVolatilityX1000)
}

func TestActiveProfile_UnknownActiveIsError(t *testing.T) {
	cfg := &Config{Active: "missing", Profiles: map[string]Profile{}}

	_, err := ActiveProfile(cfg)

	assert.Error(t, err)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	profile, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "conservative", profile.Name)
}

func TestLoad_ParsesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardian.yaml")
	contents := `
active_profile: custom
profiles:
  custom:
    name: custom
    safety:
      max_latency_ms: 100
      max_volatility_pct: 2.0
    risk:
      max_volatility_x1000: 500
      ofi_sell_wall_x1000: -200
      ofi_buy_wall_x1000: 200
      max_position_count: 1
      strong_trend_adx_x100: 2000
      bull_counter_rsi_x100: 7000
      bear_counter_rsi_x100: 3000
    http:
      addr: ":9000"
      tick_ingest_rps: 10
      tick_ingest_burst: 20
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	profile, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "custom", profile.Name)
	assert.Equal(t, 100, profile.Safety.MaxLatencyMs)
	assert.Equal(t, 1, profile.Risk.MaxPositionCount)
	assert.Equal(t, ":9000", profile.HTTP.Addr)
}
