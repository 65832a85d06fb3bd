package risk

import "github.com/sawpanic/titanguardian/internal/config"

// Rule is a single predicate over Facts: it derives a block reason, or
// returns ("", false) if it does not fire.
type Rule func(f Facts, cfg config.RiskConfig) (reason string, fires bool)

// Rules is the fixed, numbered evaluation order. Evaluation stops at the
// first rule that fires, outputs must be reproducible, so rule order is
// part of the contract, not an implementation detail.
var Rules = []Rule{
	ruleHighVolatilityHalt,
	ruleOFIDivergenceBuyIntoSellWall,
	ruleOFIDivergenceSellIntoBuyWall,
	rulePositionCap,
	ruleCounterTrendInStrongBull,
	ruleCounterTrendInStrongBear,
}

// 1. High volatility halt.
func ruleHighVolatilityHalt(f Facts, cfg config.RiskConfig) (string, bool) {
	if f.VolatilityX1000 > cfg.MaxVolatilityX1000 {
		return "High Volatility Halt (Article 14)", true
	}
	return "", false
}

// 2. OFI divergence: BUY into a sell wall. The boundary is inclusive of
// the scaled threshold itself: truncating toward zero means a real OFI
// of -0.30001 and one of exactly -0.300 both scale to -300, and both must
// still read as "at or beyond" the wall for the fixed-point facts to be a
// faithful stand-in for the float comparison they replace.
func ruleOFIDivergenceBuyIntoSellWall(f Facts, cfg config.RiskConfig) (string, bool) {
	if f.Side == SideBuy && f.OFIScoreX1000 <= cfg.OFISellWallX1000 {
		return "OFI Divergence: Buying into massive Sell Wall", true
	}
	return "", false
}

// 3. OFI divergence: SELL into a buy wall. Mirrors rule 2's inclusive
// boundary.
func ruleOFIDivergenceSellIntoBuyWall(f Facts, cfg config.RiskConfig) (string, bool) {
	if f.Side == SideSell && f.OFIScoreX1000 >= cfg.OFIBuyWallX1000 {
		return "OFI Divergence: Selling into massive Buy Wall", true
	}
	return "", false
}

// 4. Position cap.
func rulePositionCap(f Facts, cfg config.RiskConfig) (string, bool) {
	if f.PositionCount >= cfg.MaxPositionCount {
		return "Max Positions Reached", true
	}
	return "", false
}

// 5. Counter-trend in a strong bull market.
func ruleCounterTrendInStrongBull(f Facts, cfg config.RiskConfig) (string, bool) {
	if f.Side == SideSell && f.MarketTrend == TrendBullish &&
		f.AdxX100 > cfg.StrongTrendADXX100 && f.RsiX100 < cfg.BullCounterRSIX100 {
		return "Counter-Trend Sell in Strong Bull Market", true
	}
	return "", false
}

// 6. Counter-trend in a strong bear market.
func ruleCounterTrendInStrongBear(f Facts, cfg config.RiskConfig) (string, bool) {
	if f.Side == SideBuy && f.MarketTrend == TrendBearish &&
		f.AdxX100 > cfg.StrongTrendADXX100 && f.RsiX100 > cfg.BearCounterRSIX100 {
		return "Counter-Trend Buy in Strong Bear Market", true
	}
	return "", false
}

// Evaluate runs the rule set to fixpoint, returning the first rule that
// derives a block, or ("", false) if none fire. Because each rule is
// independent and non-recursive, "to fixpoint" here is exactly one pass.
func Evaluate(f Facts, cfg config.RiskConfig) (reason string, blocked bool) {
	for _, rule := range Rules {
		if reason, fires := rule(f, cfg); fires {
			return reason, true
		}
	}
	return "", false
}
