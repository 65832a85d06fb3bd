// Package guardian implements the Math Guardian engine: a streaming
// indicator pipeline over a bounded tick buffer, the deterministic scoring
// function that turns indicators into a pre-arbitration verdict, and the
// symbolic arbitration state machine that reconciles that verdict with an
// optional neural recommendation.
package guardian

// Action is one of the four verdicts a TradingSignal can carry.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
	ActionHalt Action = "HALT"
)

// Source identifies which subsystem produced a TradingSignal.
type Source string

const (
	SourceMathGuardian      Source = "MathGuardian"
	SourceNeuralCortex      Source = "NeuralCortex"
	SourceSymbolicConsensus Source = "SymbolicConsensus"
	SourceEmergencyHalt     Source = "EmergencyHalt"
)

// MarketTick is a single microstructure observation. Created on ingest,
// never mutated, evicted FIFO once the owning buffer is full.
type MarketTick struct {
	Price       float64
	BidVolume   float64
	AskVolume   float64
	TimestampMs int64
}

const (
	// TickBufferCapacity is N_tick from the data model.
	TickBufferCapacity = 100
	// OFIHistoryCapacity bounds the rolling imbalance history.
	OFIHistoryCapacity = 50
)

// TickBuffer is a bounded FIFO window of MarketTick, capacity
// TickBufferCapacity. Oldest element is dropped on overflow; PriceHistory
// is appended in lockstep so the two sequences always have equal length.
type TickBuffer struct {
	ticks  []MarketTick
	prices []float64
}

// NewTickBuffer returns an empty tick buffer.
func NewTickBuffer() *TickBuffer {
	return &TickBuffer{
		ticks:  make([]MarketTick, 0, TickBufferCapacity),
		prices: make([]float64, 0, TickBufferCapacity),
	}
}

// Push appends a tick, evicting the oldest entry if the buffer is full.
// Returns true if the tick's timestamp is strictly less than the previous
// tick's timestamp (out-of-order arrival), the tick is still ingested,
// the caller is responsible for flagging it in the audit trail.
func (b *TickBuffer) Push(t MarketTick) (outOfOrder bool) {
	if n := len(b.ticks); n > 0 && t.TimestampMs < b.ticks[n-1].TimestampMs {
		outOfOrder = true
	}
	if len(b.ticks) >= TickBufferCapacity {
		b.ticks = b.ticks[1:]
		b.prices = b.prices[1:]
	}
	b.ticks = append(b.ticks, t)
	b.prices = append(b.prices, t.Price)
	return outOfOrder
}

// Len returns the number of ticks currently buffered.
func (b *TickBuffer) Len() int { return len(b.ticks) }

// Ticks returns the buffered ticks in insertion order. The returned slice
// must be treated as read-only by the caller.
func (b *TickBuffer) Ticks() []MarketTick { return b.ticks }

// Prices returns the price history in lockstep with Ticks. Read-only.
func (b *TickBuffer) Prices() []float64 { return b.prices }

// OFIMatrix is the value object produced by CalculateOFI.
type OFIMatrix struct {
	Imbalance       float64
	CumulativeDelta float64
	BuyPressure     float64
	SellPressure    float64
	TrendStrength   float64
}

// TradingSignal is the signed, auditable verdict emitted by GenerateSignal.
type TradingSignal struct {
	Action      Action
	Confidence  float64
	Reasoning   string
	Source      Source
	ProofHash   string
	TimestampMs int64
	CanExecute  bool
}
