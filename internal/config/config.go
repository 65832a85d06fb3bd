// Package config loads Titan Guardian's runtime configuration: safety
// precondition thresholds, risk-engine rule thresholds, and the HTTP
// surface's bind address. Profiles are keyed by name with one active
// profile selected at load time.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SafetyConfig holds the kill-switch/latency/volatility preconditions
// checked before a signal is ever generated.
type SafetyConfig struct {
	MaxLatencyMs     int     `yaml:"max_latency_ms"`
	MaxVolatilityPct float64 `yaml:"max_volatility_pct"`
}

// RiskConfig holds the six risk-invariant rule thresholds, expressed in
// the same fixed-point scale the rules themselves use.
type RiskConfig struct {
	MaxVolatilityX1000   int `yaml:"max_volatility_x1000"`
	OFISellWallX1000     int `yaml:"ofi_sell_wall_x1000"`
	OFIBuyWallX1000      int `yaml:"ofi_buy_wall_x1000"`
	MaxPositionCount     int `yaml:"max_position_count"`
	StrongTrendADXX100   int `yaml:"strong_trend_adx_x100"`
	BullCounterRSIX100   int `yaml:"bull_counter_rsi_x100"`
	BearCounterRSIX100   int `yaml:"bear_counter_rsi_x100"`
}

// HTTPConfig holds the JSON/WS surface's bind address and ingest rate
// limit.
type HTTPConfig struct {
	Addr            string  `yaml:"addr"`
	TickIngestRPS   float64 `yaml:"tick_ingest_rps"`
	TickIngestBurst int     `yaml:"tick_ingest_burst"`
}

// Profile bundles one named configuration of all three sections.
type Profile struct {
	Name   string       `yaml:"name"`
	Safety SafetyConfig `yaml:"safety"`
	Risk   RiskConfig   `yaml:"risk"`
	HTTP   HTTPConfig   `yaml:"http"`
}

// Config is the top-level file shape: a set of named profiles plus which
// one is active.
type Config struct {
	Active   string             `yaml:"active_profile"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultConfig returns the safe baseline ("conservative") configuration,
// used when no config file is present, the service must run with
// sensible defaults out of the box.
func DefaultConfig() *Config {
	conservative := Profile{
		Name: "conservative",
		Safety: SafetyConfig{
			MaxLatencyMs:     200,
			MaxVolatilityPct: 3.5,
		},
		Risk: RiskConfig{
			MaxVolatilityX1000: 850,
			OFISellWallX1000:   -300,
			OFIBuyWallX1000:    300,
			MaxPositionCount:   2,
			StrongTrendADXX100: 2500,
			BullCounterRSIX100: 7500,
			BearCounterRSIX100: 2500,
		},
		HTTP: HTTPConfig{
			Addr:            ":8089",
			TickIngestRPS:   50,
			TickIngestBurst: 100,
		},
	}

	return &Config{
		Active: "conservative",
		Profiles: map[string]Profile{
			"conservative": conservative,
		},
	}
}

// Load reads a YAML config file from path and returns its active profile.
// A missing file is not an error: Load falls back to DefaultConfig so the
// engine always has a usable configuration.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ActiveProfile(DefaultConfig())
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return ActiveProfile(&cfg)
}

// ActiveProfile resolves the active profile out of a loaded Config.
func ActiveProfile(cfg *Config) (*Profile, error) {
	profile, ok := cfg.Profiles[cfg.Active]
	if !ok {
		return nil, fmt.Errorf("active profile %q not found among %d profiles", cfg.Active, len(cfg.Profiles))
	}
	return &profile, nil
}
