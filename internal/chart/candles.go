package chart

import (
	"math"
	"math/rand"

	"trading-dashboard/internal/types"
)

const (
	DefaultCandleCount = 30
	DefaultStartPrice  = 50000.0
)

// GenerateCandles builds a random walk of n candles starting at start. Each
// candle opens at the previous close.
func GenerateCandles(rng *rand.Rand, n int, start float64) []types.Candle {
	if n <= 0 {
		return nil
	}

	candles := make([]types.Candle, 0, n)
	price := start
	for i := 0; i < n; i++ {
		open := price
		close := open * (1 + (rng.Float64()*0.1 - 0.05))
		high := math.Max(open, close) * (1 + rng.Float64()*0.03)
		low := math.Min(open, close) * (1 - rng.Float64()*0.03)

		candles = append(candles, types.Candle{
			Index:  i,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: rng.Float64() * 100,
		})
		price = close
	}
	return candles
}

// SeriesRange returns the lowest low and highest high of candles.
func SeriesRange(candles []types.Candle) (lo, hi float64) {
	if len(candles) == 0 {
		return 0, 0
	}
	lo, hi = candles[0].Low, candles[0].High
	for _, c := range candles[1:] {
		lo = math.Min(lo, c.Low)
		hi = math.Max(hi, c.High)
	}
	return lo, hi
}
