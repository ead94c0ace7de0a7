package chart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/types"
)

func TestBuildCandleFixedScale3D(t *testing.T) {
	c := types.Candle{Index: 0, Open: 100, Close: 120, High: 130, Low: 90, Volume: 50}
	m := BuildCandle(c, 0, 30, types.View3D, FixedMapping())

	assert.Equal(t, ColorRising, m.Body.Color)
	assert.Equal(t, ColorRisingEmissive, m.Body.Emissive)
	assert.Equal(t, -15.0, m.Body.Position.X)
	assert.InDelta(t, 11.0, m.Body.Position.Y, 1e-9)
	assert.InDelta(t, 2.0, m.Body.Size.Y, 1e-9)
	assert.Equal(t, 0.9, m.Body.Size.Z)

	assert.InDelta(t, 4.0, m.Wick.Size.Y, 1e-9)
	assert.InDelta(t, 11.0, m.Wick.Position.Y, 1e-9)
	assert.Equal(t, 0.15, m.Wick.Size.X)

	require.NotNil(t, m.Volume)
	assert.InDelta(t, 1.5, m.Volume.Size.Y, 1e-9)
	assert.Equal(t, -5.0, m.Volume.Position.Y)

	require.NotNil(t, m.Link)
	assert.InDelta(t, 11.0+5.0-1.0-0.75, m.Link.Size.Y, 1e-9)
	assert.InDelta(t, 3.0, m.Link.Position.Y, 1e-9)
	assert.Equal(t, 4, m.Count())
}

func TestBuildCandleFloors(t *testing.T) {
	c := types.Candle{Open: 100, Close: 100, High: 100.5, Low: 100, Volume: 0}
	m := BuildCandle(c, 3, 30, types.View3D, FixedMapping())

	assert.Equal(t, bodyMinHeight, m.Body.Size.Y)
	assert.Equal(t, wickMinHeight, m.Wick.Size.Y)
	assert.Equal(t, volumeMinHeight, m.Volume.Size.Y)
	assert.Equal(t, ColorFalling, m.Body.Color, "an unchanged close is not rising")
	assert.Equal(t, ColorFallingEmissive, m.Wick.Emissive)
}

func TestBuildGeometry2D(t *testing.T) {
	candles := []types.Candle{
		{Index: 0, Open: 10, Close: 12, High: 13, Low: 9},
		{Index: 1, Open: 12, Close: 11, High: 12.5, Low: 10},
	}
	g := BuildGeometry(candles, types.View2D, FixedMapping())

	require.Len(t, g.Candles, 2)
	for _, c := range g.Candles {
		assert.Nil(t, c.Volume)
		assert.Nil(t, c.Link)
		assert.Equal(t, 0.2, c.Body.Size.Z)
	}
	require.NotNil(t, g.Trend)
	require.Len(t, g.Trend.Points, 2)
	assert.Equal(t, -1.0, g.Trend.Points[0].X)
	assert.InDelta(t, 1.2, g.Trend.Points[0].Y, 1e-9)
	assert.Equal(t, 0.0, g.Trend.Points[1].X)
	assert.InDelta(t, 1.1, g.Trend.Points[1].Y, 1e-9)
}

func TestBuildGeometry3DHasNoTrend(t *testing.T) {
	g := BuildGeometry([]types.Candle{{Open: 1, Close: 2, High: 2, Low: 1}}, types.View3D, FixedMapping())
	assert.Nil(t, g.Trend)
}

func TestFitMapping(t *testing.T) {
	candles := []types.Candle{
		{Low: 49000, High: 51000, Open: 50000, Close: 50500},
		{Low: 48000, High: 50000, Open: 50500, Close: 49000},
	}
	m := FitMapping(candles)

	assert.InDelta(t, FitFloor, m.Y(48000), 1e-9)
	assert.InDelta(t, FitFloor+FitSpan, m.Y(51000), 1e-9)
	assert.InDelta(t, FitFloor+FitSpan/2, m.Y(49500), 1e-9)

	flat := FitMapping([]types.Candle{{Low: 5, High: 5}})
	assert.Equal(t, FixedScale, flat.Scale)
	assert.InDelta(t, FitFloor+FitSpan/2, flat.Y(5), 1e-9)
}

func TestFitMappingMeshesStayAboveVolume(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		candles := GenerateCandles(rand.New(rand.NewSource(seed)), DefaultCandleCount, DefaultStartPrice)
		g := BuildGeometry(candles, types.View3D, FitMapping(candles))

		for i, c := range g.Candles {
			require.NotNil(t, c.Volume)
			require.NotNil(t, c.Link, "seed %d candle %d", seed, i)
			for _, mesh := range []Mesh{c.Body, c.Wick, *c.Volume, *c.Link} {
				assert.GreaterOrEqual(t, mesh.Size.X, 0.0)
				assert.GreaterOrEqual(t, mesh.Size.Y, 0.0, "seed %d candle %d %s", seed, i, mesh.Kind)
				assert.GreaterOrEqual(t, mesh.Size.Z, 0.0)
			}
			volumeTop := c.Volume.Position.Y + c.Volume.Size.Y/2
			assert.Greater(t, c.Body.Position.Y-c.Body.Size.Y/2, volumeTop, "seed %d candle %d", seed, i)
		}
	}
}

func TestLinkOmittedWhenBodyMeetsVolume(t *testing.T) {
	c := types.Candle{Open: 0, Close: 1, High: 1, Low: 0, Volume: 100}
	m := BuildCandle(c, 0, 1, types.View3D, Mapping{Scale: 1, Baseline: 5})

	require.NotNil(t, m.Volume)
	assert.Nil(t, m.Link)
	assert.Equal(t, 3, m.Count())
}

func TestCandleX(t *testing.T) {
	assert.Equal(t, -15.0, CandleX(0, 30))
	assert.Equal(t, 14.0, CandleX(29, 30))
	assert.Equal(t, -0.5, CandleX(0, 1))
}
