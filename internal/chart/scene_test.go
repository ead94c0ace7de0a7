package chart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/types"
)

func TestSceneChildren(t *testing.T) {
	candles := GenerateCandles(rand.New(rand.NewSource(1)), 30, DefaultStartPrice)

	// 4 lights, grid and plane plus 4 meshes per candle
	s3 := NewScene(candles, types.View3D, FixedMapping())
	assert.Equal(t, 6+30*4, s3.Children())

	// 2 meshes per candle plus the trend line
	s2 := NewScene(candles, types.View2D, FixedMapping())
	assert.Equal(t, 6+30*2+1, s2.Children())

	s3.Clear()
	assert.Zero(t, s3.Children())
}

func TestSceneKeyedCandles(t *testing.T) {
	candles := GenerateCandles(rand.New(rand.NewSource(2)), 5, DefaultStartPrice)
	s := NewScene(candles, types.View3D, FixedMapping())
	before := s.Children()

	require.True(t, s.RemoveCandle(2))
	assert.False(t, s.RemoveCandle(2))
	assert.Equal(t, before-4, s.Children())

	s.AddCandle(candles[2], 2)
	assert.Equal(t, before, s.Children())

	got := s.Candles()
	require.Len(t, got, 5)
	for i, c := range got {
		assert.Equal(t, i, c.Index)
	}
}

func TestAnimateLights(t *testing.T) {
	s := NewScene(nil, types.View3D, FixedMapping())
	s.AnimateLights(0)

	lights := s.Lights()
	require.Len(t, lights, 4)
	assert.InDelta(t, 0, lights[2].Position.X, 1e-9)
	assert.InDelta(t, 15, lights[2].Position.Z, 1e-9)
	assert.InDelta(t, 0, lights[3].Position.X, 1e-9)
	assert.InDelta(t, -15, lights[3].Position.Z, 1e-9)
	assert.Equal(t, Vec3{X: 5, Y: 15, Z: 10}, lights[1].Position, "directional light stays put")
}

func TestSceneCenter(t *testing.T) {
	candles := []types.Candle{
		{Index: 0, Open: 100, Close: 120},
		{Index: 1, Open: 120, Close: 140},
	}
	s := NewScene(candles, types.View2D, FixedMapping())
	assert.InDelta(t, 12.0, s.Center().Y, 1e-9)
}
