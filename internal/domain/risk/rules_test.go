package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/titanguardian/internal/config"
)

func defaultRiskConfig() config.RiskConfig {
	return config.DefaultConfig().Profiles["conservative"].Risk
}

func TestScaleX1000_TruncatesTowardZero(t *testing.T) {
	assert.Equal(t, 850, ScaleX1000(0.85))
	assert.Equal(t, -300, ScaleX1000(-0.30001))
	assert.Equal(t, -299, ScaleX1000(-0.29999))
}

func TestScaleX100_TruncatesTowardZero(t *testing.T) {
	assert.Equal(t, 2500, ScaleX100(25.0))
	assert.Equal(t, 7499, ScaleX100(74.999))
}

func TestEvaluate_HighVolatilityHalt(t *testing.T) {
	cfg := defaultRiskConfig()
	facts := Facts{Side: SideBuy, VolatilityX1000: 900}

	reason, blocked := Evaluate(facts, cfg)

	require.True(t, blocked)
	assert.Equal(t, "High Volatility Halt (Article 14)", reason)
}

func TestEvaluate_S6BuyIntoSellWall(t *testing.T) {
	cfg := defaultRiskConfig()
	facts := Facts{
		Side:            SideBuy,
		SizeX1000:       ScaleX1000(1.0),
		VolatilityX1000: ScaleX1000(0.2),
		OFIScoreX1000:   ScaleX1000(-0.4),
		MarketTrend:     TrendSideways,
		AdxX100:         ScaleX100(10.0),
		RsiX100:         ScaleX100(50.0),
		PositionCount:   0,
	}

	reason, blocked := Evaluate(facts, cfg)

	require.True(t, blocked)
	assert.Equal(t, "OFI Divergence: Buying into massive Sell Wall", reason)
}

func TestEvaluate_FixedPointBoundary(t *testing.T) {
	cfg := defaultRiskConfig()

	blocking := Facts{Side: SideBuy, OFIScoreX1000: ScaleX1000(-0.30001)}
	_, blocked := Evaluate(blocking, cfg)
	assert.True(t, blocked, "-0.30001 must block a BUY")

	nonBlocking := Facts{Side: SideBuy, OFIScoreX1000: ScaleX1000(-0.29999)}
	_, blocked = Evaluate(nonBlocking, cfg)
	assert.False(t, blocked, "-0.29999 must not block a BUY")
}

func TestEvaluate_SellIntoBuyWall(t *testing.T) {
	cfg := defaultRiskConfig()
	facts := Facts{Side: SideSell, OFIScoreX1000: 350}

	reason, blocked := Evaluate(facts, cfg)

	require.True(t, blocked)
	assert.Equal(t, "OFI Divergence: Selling into massive Buy Wall", reason)
}

func TestEvaluate_S7PositionCap(t *testing.T) {
	cfg := defaultRiskConfig()
	facts := Facts{
		Side:            SideBuy,
		SizeX1000:       ScaleX1000(1.0),
		VolatilityX1000: ScaleX1000(0.1),
		OFIScoreX1000:   0,
		MarketTrend:     TrendSideways,
		AdxX100:         ScaleX100(10.0),
		RsiX100:         ScaleX100(50.0),
		PositionCount:   2,
	}

	reason, blocked := Evaluate(facts, cfg)

	require.True(t, blocked)
	assert.Equal(t, "Max Positions Reached", reason)
}

func TestEvaluate_CounterTrendStrongBull(t *testing.T) {
	cfg := defaultRiskConfig()
	facts := Facts{
		Side:        SideSell,
		MarketTrend: TrendBullish,
		AdxX100:     2600,
		RsiX100:     7000,
	}

	reason, blocked := Evaluate(facts, cfg)

	require.True(t, blocked)
	assert.Equal(t, "Counter-Trend Sell in Strong Bull Market", reason)
}

func TestEvaluate_CounterTrendStrongBear(t *testing.T) {
	cfg := defaultRiskConfig()
	facts := Facts{
		Side:        SideBuy,
		MarketTrend: TrendBearish,
		AdxX100:     2600,
		RsiX100:     3000,
	}

	reason, blocked := Evaluate(facts, cfg)

	require.True(t, blocked)
	assert.Equal(t, "Counter-Trend Buy in Strong Bear Market", reason)
}

func TestEvaluate_ApprovedWhenNoRuleFires(t *testing.T) {
	cfg := defaultRiskConfig()
	facts := Facts{
		Side:            SideBuy,
		VolatilityX1000: 100,
		OFIScoreX1000:   0,
		MarketTrend:     TrendSideways,
		AdxX100:         1000,
		RsiX100:         5000,
		PositionCount:   0,
	}

	reason, blocked := Evaluate(facts, cfg)

	assert.False(t, blocked)
	assert.Empty(t, reason)
}

func TestEvaluate_FirstMatchingRuleWinsWhenMultipleFire(t *testing.T) {
	cfg := defaultRiskConfig()
	// Both rule 1 (high volatility) and rule 4 (position cap) fire; rule 1
	// must win since it is tried first.
	facts := Facts{
		Side:            SideBuy,
		VolatilityX1000: 900,
		PositionCount:   5,
	}

	reason, blocked := Evaluate(facts, cfg)

	require.True(t, blocked)
	assert.Equal(t, "High Volatility Halt (Article 14)", reason)
}
