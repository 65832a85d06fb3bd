package guardian

import (
	"encoding/json"
	"fmt"

	"github.com/sawpanic/titanguardian/internal/clock"
	"github.com/sawpanic/titanguardian/internal/config"
	"github.com/sawpanic/titanguardian/internal/domain/audit"
)

// Guardian is the single-owner, single-threaded decision engine. It holds
// the bounded tick/price/OFI buffers, the kill-switch flag, the
// append-only audit log, and the last observed volatility reading.
// Callers must serialize access to a shared Guardian themselves
// (internal/interfaces/http wraps one behind a mutex); the engine itself
// never spawns goroutines or blocks on I/O.
type Guardian struct {
	clock  clock.Clock
	safety config.SafetyConfig

	ticks      *TickBuffer
	ofiHistory *FloatRing

	killSwitchActive bool
	lastVolatility   float64

	auditLog *audit.Log
}

// New constructs a fresh Guardian using the given clock and safety
// configuration.
func New(c clock.Clock, safety config.SafetyConfig) *Guardian {
	return &Guardian{
		clock:      c,
		safety:     safety,
		ticks:      NewTickBuffer(),
		ofiHistory: NewFloatRing(OFIHistoryCapacity),
		auditLog:   audit.NewLog(),
	}
}

// IngestTick appends a new market tick to the bounded buffer. An
// out-of-order arrival (non-decreasing-timestamp invariant violated) is
// still ingested, but a line is appended to the audit trail flagging it.
func (g *Guardian) IngestTick(price, bidVolume, askVolume float64, timestampMs int64) {
	if bidVolume < 0 {
		bidVolume = 0
	}
	if askVolume < 0 {
		askVolume = 0
	}

	tick := MarketTick{Price: price, BidVolume: bidVolume, AskVolume: askVolume, TimestampMs: timestampMs}
	outOfOrder := g.ticks.Push(tick)
	if outOfOrder {
		g.auditLog.Append(fmt.Sprintf("[%d] OUT-OF-ORDER tick ingested (price=%g)", timestampMs, price))
	}
}

// CalculateOFI computes the order flow imbalance matrix over the current
// tick buffer.
func (g *Guardian) CalculateOFI() OFIMatrix {
	return CalculateOFI(g.ticks, g.ofiHistory)
}

// CalculateRSI computes RSI(period) over the current price history.
func (g *Guardian) CalculateRSI(period int) float64 {
	return CalculateRSI(g.ticks.Prices(), period)
}

// CalculateVolatility computes and records percent volatility over the
// current price history.
func (g *Guardian) CalculateVolatility() float64 {
	v := Volatility(g.ticks.Prices())
	g.lastVolatility = v
	return v
}

// DetectRSIFailureSwing runs the failure-swing detector over the current
// price history.
func (g *Guardian) DetectRSIFailureSwing() float64 {
	return DetectRSIFailureSwing(g.ticks.Prices())
}

// IsHalted reports whether the kill switch is currently active.
func (g *Guardian) IsHalted() bool {
	return g.killSwitchActive
}

// ActivateKillSwitch forces every subsequent GenerateSignal call to HALT
// until deactivated. Appends a dedicated audit line recording the reason.
func (g *Guardian) ActivateKillSwitch(reason string) {
	g.killSwitchActive = true
	g.auditLog.Append(fmt.Sprintf("[%d] KILL SWITCH ACTIVATED: %s", g.clock.NowMillis(), reason))
}

// DeactivateKillSwitch clears the kill switch and records the operator
// signature that authorized the deactivation.
func (g *Guardian) DeactivateKillSwitch(operatorSignature string) {
	g.killSwitchActive = false
	g.auditLog.Append(fmt.Sprintf("[%d] KILL SWITCH DEACTIVATED by %s", g.clock.NowMillis(), operatorSignature))
}

// GetAuditLog returns the full audit trail serialized as a JSON array of
// strings.
func (g *Guardian) GetAuditLog() ([]byte, error) {
	return json.Marshal(g.auditLog.Lines())
}

// AuditLines returns the raw audit lines, for callers (tests, the
// websocket tailer) that want them unserialized.
func (g *Guardian) AuditLines() []string {
	return g.auditLog.Lines()
}

// NeuralInput is the optional neural recommendation passed to
// GenerateSignal.
type NeuralInput struct {
	Action     Action
	Confidence float64
}

// GenerateSignal atomically performs preconditions, indicators, scoring,
// arbitration, audit append, and hashing, and returns the resulting
// signal. This is the one operation that must look atomic to callers: a
// kill-switch HALT short-circuits before touching indicators, leaving
// buffers untouched.
func (g *Guardian) GenerateSignal(networkLatencyMs int, neural *NeuralInput) TradingSignal {
	now := g.clock.NowMillis()

	if sig, halted := g.checkPreconditions(networkLatencyMs, now); halted {
		g.finalize(&sig)
		return sig
	}

	ofi := g.CalculateOFI()
	rsi := g.CalculateRSI(14)
	failureSwing := g.DetectRSIFailureSwing()

	result := Score(rsi, ofi, failureSwing)
	reasoning := joinReasons(result.Reasons)

	var neuralVerdict *NeuralVerdict
	if neural != nil {
		neuralVerdict = &NeuralVerdict{Action: neural.Action, Confidence: neural.Confidence}
	}

	arbitrated := Arbitrate(result.Action, result.Confidence, reasoning, neuralVerdict)

	sig := TradingSignal{
		Action:      arbitrated.Action,
		Confidence:  arbitrated.Confidence,
		Reasoning:   arbitrated.Reasoning,
		Source:      arbitrated.Source,
		TimestampMs: now,
		CanExecute:  arbitrated.CanExecute,
	}
	g.finalize(&sig)
	return sig
}

// checkPreconditions runs the kill-switch, latency, and volatility safety
// gates in order. Returns a fully-formed HALT signal and true if any gate
// blocks.
func (g *Guardian) checkPreconditions(networkLatencyMs int, now int64) (TradingSignal, bool) {
	if g.killSwitchActive {
		return TradingSignal{
			Action:      ActionHalt,
			Confidence:  1.0,
			Reasoning:   "KILL SWITCH ACTIVE",
			Source:      SourceEmergencyHalt,
			TimestampMs: now,
			CanExecute:  false,
		}, true
	}

	if networkLatencyMs > g.safety.MaxLatencyMs {
		return TradingSignal{
			Action:      ActionHalt,
			Confidence:  1.0,
			Reasoning:   fmt.Sprintf("Network latency %dms exceeds safety threshold %dms", networkLatencyMs, g.safety.MaxLatencyMs),
			Source:      SourceEmergencyHalt,
			TimestampMs: now,
			CanExecute:  false,
		}, true
	}

	vol := g.CalculateVolatility()
	if vol > g.safety.MaxVolatilityPct {
		return TradingSignal{
			Action:      ActionHalt,
			Confidence:  1.0,
			Reasoning:   fmt.Sprintf("Volatility %.2f%% exceeds safety threshold %.2f%%", vol, g.safety.MaxVolatilityPct),
			Source:      SourceEmergencyHalt,
			TimestampMs: now,
			CanExecute:  false,
		}, true
	}

	return TradingSignal{}, false
}

// finalize computes the proof hash and appends the audit line. Called
// exactly once per GenerateSignal invocation, on every path (including
// precondition short-circuits), since a HALT is still a first-class
// emitted signal that must be auditable.
func (g *Guardian) finalize(sig *TradingSignal) {
	sig.ProofHash = audit.ProofHash(*sig)
	g.auditLog.AppendSignal(*sig)
}

func joinReasons(reasons []string) string {
	if len(reasons) == 0 {
		return "no signal"
	}
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += "; " + r
	}
	return out
}
