package guardian

import "math"

// CalculateOFI computes the order flow imbalance matrix over the current
// tick buffer. With fewer than 10 ticks buffered it returns the all-zero
// matrix and does not touch ofiHistory, there simply isn't enough signal
// yet to trust an imbalance reading.
func CalculateOFI(buf *TickBuffer, ofiHistory *FloatRing) OFIMatrix {
	ticks := buf.Ticks()
	if len(ticks) < 10 {
		return OFIMatrix{}
	}

	var sumBid, sumAsk float64
	for _, t := range ticks {
		sumBid += t.BidVolume
		sumAsk += t.AskVolume
	}
	total := sumBid + sumAsk

	var imbalance float64
	if total > 0 {
		imbalance = (sumBid - sumAsk) / total
	}

	var buyPressure, sellPressure float64
	if total > 0 {
		buyPressure = sumBid / total
		sellPressure = sumAsk / total
	}

	matrix := OFIMatrix{
		Imbalance:       imbalance,
		CumulativeDelta: sumBid - sumAsk,
		BuyPressure:     buyPressure,
		SellPressure:    sellPressure,
		TrendStrength:   Momentum(buf.Prices()),
	}

	ofiHistory.Push(imbalance)
	return matrix
}

// LadderLevel is a single [price, volume] entry from an external order
// book snapshot, as consumed by FastOFI.
type LadderLevel struct {
	Price  float64
	Volume float64
}

// FastOFI computes the normalized imbalance of the first 5 levels of two
// external ladder snapshots (bids, asks). Used by callers that own a full
// order book rather than a tick tape. Malformed or empty input yields 0,
// never an error.
func FastOFI(bids, asks []LadderLevel) float64 {
	sumBid := sumLevels(bids, 5)
	sumAsk := sumLevels(asks, 5)
	total := sumBid + sumAsk
	if total <= 0 {
		return 0
	}
	return (sumBid - sumAsk) / total
}

func sumLevels(levels []LadderLevel, n int) float64 {
	if len(levels) < n {
		n = len(levels)
	}
	var sum float64
	for _, lvl := range levels[:n] {
		sum += lvl.Volume
	}
	return sum
}

// CalculateRSI computes the period-window RSI over prices using the
// simple-moving-average form of gains/losses (the "Wilder RSI" name is
// inherited from the source this engine was distilled from; the formula
// here is plain SMA gain/loss averaging, not Wilder's exponential
// smoothing). Returns the neutral sentinel 50.0 when there isn't enough
// history.
func CalculateRSI(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 50.0
	}

	window := prices[len(prices)-period-1:]
	var gains, losses float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// Volatility computes the percent standard deviation of simple returns
// over the full price history. Needs at least 20 prices; returns 0
// otherwise. On success, volatility must also be recorded as the caller's
// last-observed reading (the Guardian does this in GenerateSignal).
func Volatility(prices []float64) float64 {
	if len(prices) < 20 {
		return 0
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * 100.0
}

// Momentum compares the mean of the most recent 5 prices to the mean of
// the 5 prices before that. Returns 0 with fewer than 10 prices.
func Momentum(prices []float64) float64 {
	if len(prices) < 10 {
		return 0
	}

	n := len(prices)
	recent := meanOf(prices[n-5:])
	prior := meanOf(prices[n-10 : n-5])
	if prior == 0 {
		return 0
	}
	return (recent - prior) / prior
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// DetectRSIFailureSwing looks for a divergence between an RSI extreme and
// price action: RSI reaches an extreme but price fails to set a matching
// new extreme in the same direction. Needs at least 20 prices; returns 0
// otherwise.
func DetectRSIFailureSwing(prices []float64) float64 {
	if len(prices) < 20 {
		return 0
	}

	rsi := CalculateRSI(prices, 14)
	n := len(prices)
	last5 := prices[n-5:]
	prev5 := prices[n-10 : n-5]

	if rsi < 35 && minOf(last5) > minOf(prev5) {
		return 1.0
	}
	if rsi > 65 && maxOf(last5) < maxOf(prev5) {
		return -1.0
	}
	return 0.0
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
