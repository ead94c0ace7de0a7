package chart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/types"
)

func TestGenerateCandlesInvariants(t *testing.T) {
	for _, n := range []int{1, 30, 200} {
		candles := GenerateCandles(rand.New(rand.NewSource(42)), n, DefaultStartPrice)
		require.Len(t, candles, n)

		for i, c := range candles {
			if i > 0 {
				assert.Greater(t, c.Index, candles[i-1].Index)
				assert.Equal(t, candles[i-1].Close, c.Open, "each candle opens at the previous close")
			}
			assert.GreaterOrEqual(t, c.High, max(c.Open, c.Close))
			assert.LessOrEqual(t, c.Low, min(c.Open, c.Close))
			assert.GreaterOrEqual(t, c.Volume, 0.0)
			assert.Less(t, c.Volume, 100.0)
		}
		assert.Equal(t, DefaultStartPrice, candles[0].Open)
	}
}

func TestGenerateCandlesDeterministic(t *testing.T) {
	a := GenerateCandles(rand.New(rand.NewSource(7)), 30, DefaultStartPrice)
	b := GenerateCandles(rand.New(rand.NewSource(7)), 30, DefaultStartPrice)
	assert.Equal(t, a, b)
}

func TestGenerateCandlesEmpty(t *testing.T) {
	assert.Empty(t, GenerateCandles(rand.New(rand.NewSource(1)), 0, DefaultStartPrice))
}

func TestSeriesRange(t *testing.T) {
	lo, hi := SeriesRange([]types.Candle{
		{Low: 10, High: 20},
		{Low: 5, High: 15},
		{Low: 12, High: 30},
	})
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 30.0, hi)
}
