package guardian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTicks(prices []float64, bid, ask float64) *TickBuffer {
	buf := NewTickBuffer()
	for i, p := range prices {
		buf.Push(MarketTick{Price: p, BidVolume: bid, AskVolume: ask, TimestampMs: int64(i)})
	}
	return buf
}

func TestCalculateOFI_ShortHistoryReturnsZeroMatrix(t *testing.T) {
	buf := buildTicks([]float64{1, 2, 3}, 2, 1)
	history := NewFloatRing(OFIHistoryCapacity)

	matrix := CalculateOFI(buf, history)

	assert.Equal(t, OFIMatrix{}, matrix)
	assert.Equal(t, 0, history.Len(), "short history must not be recorded")
}

func TestCalculateOFI_ImbalanceWithinRange(t *testing.T) {
	prices := make([]float64, 12)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	buf := buildTicks(prices, 2, 1)
	history := NewFloatRing(OFIHistoryCapacity)

	matrix := CalculateOFI(buf, history)

	assert.InDelta(t, 1.0/3.0, matrix.Imbalance, 1e-9)
	assert.GreaterOrEqual(t, matrix.Imbalance, -1.0)
	assert.LessOrEqual(t, matrix.Imbalance, 1.0)
	assert.InDelta(t, 2.0/3.0, matrix.BuyPressure, 1e-9)
	assert.InDelta(t, 1.0/3.0, matrix.SellPressure, 1e-9)
	require.Equal(t, 1, history.Len())
}

func TestFastOFI_EmptyInputsYieldZero(t *testing.T) {
	assert.Equal(t, 0.0, FastOFI(nil, nil))
}

func TestFastOFI_UsesTopFiveLevelsOnly(t *testing.T) {
	bids := []LadderLevel{{Price: 100, Volume: 1}, {Price: 99, Volume: 1}, {Price: 98, Volume: 1}, {Price: 97, Volume: 1}, {Price: 96, Volume: 1}, {Price: 95, Volume: 100}}
	asks := []LadderLevel{{Price: 101, Volume: 1}}

	ofi := FastOFI(bids, asks)

	assert.InDelta(t, (5.0-1.0)/(5.0+1.0), ofi, 1e-9)
}

func TestCalculateRSI_InsufficientHistoryReturnsNeutral(t *testing.T) {
	assert.Equal(t, 50.0, CalculateRSI([]float64{100, 101}, 14))
}

func TestCalculateRSI_Overbought(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	rsi := CalculateRSI(prices, 14)
	assert.Greater(t, rsi, 70.0)
}

func TestCalculateRSI_AllLossesReturnsZero(t *testing.T) {
	prices := make([]float64, 16)
	for i := range prices {
		prices[i] = 100 - float64(i)
	}
	assert.Equal(t, 0.0, CalculateRSI(prices, 14))
}

func TestVolatility_InsufficientHistoryReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, Volatility(make([]float64, 19)))
}

func TestVolatility_ConstantPricesIsZero(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 100
	}
	assert.Equal(t, 0.0, Volatility(prices))
}

func TestMomentum_InsufficientHistoryReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, Momentum(make([]float64, 9)))
}

func TestMomentum_RisingPricesIsPositive(t *testing.T) {
	prices := make([]float64, 10)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	assert.Greater(t, Momentum(prices), 0.0)
}

func TestDetectRSIFailureSwing_InsufficientHistory(t *testing.T) {
	assert.Equal(t, 0.0, DetectRSIFailureSwing(make([]float64, 19)))
}

func TestDetectRSIFailureSwing_Neutral(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 100
	}
	assert.Equal(t, 0.0, DetectRSIFailureSwing(prices))
}
