package chart

import (
	"bytes"
	"image/png"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/types"
)

func TestPNGBackendRender(t *testing.T) {
	candles := GenerateCandles(rand.New(rand.NewSource(3)), 30, DefaultStartPrice)
	for _, view := range []types.ViewMode{types.View2D, types.View3D} {
		scene := NewScene(candles, view, FitMapping(candles))
		camera := NewCamera(view, 400, 250, scene.Center())

		b := NewPNGBackend()
		require.NoError(t, b.Render(Frame{Asset: "BTC/USD", Scene: scene, Camera: camera, Width: 400, Height: 250}))

		img, err := png.Decode(bytes.NewReader(b.Snapshot()))
		require.NoError(t, err)
		assert.Equal(t, 400, img.Bounds().Dx())
		assert.Equal(t, 250, img.Bounds().Dy())

		b.Dispose()
		assert.Nil(t, b.Snapshot())
		assert.Error(t, b.Render(Frame{Scene: scene, Camera: camera, Width: 400, Height: 250}))
	}
}

func TestProjectorCentersTarget(t *testing.T) {
	c := NewCamera(types.View2D, 800, 500, Vec3{})
	p := newProjector(c, 800, 500)

	x, y, depth, ok := p.project(Vec3{})
	require.True(t, ok)
	assert.Equal(t, 400, x)
	assert.Equal(t, 250, y)
	assert.InDelta(t, 20, depth, 1e-9)

	_, _, _, ok = p.project(Vec3{Z: 30})
	assert.False(t, ok, "points behind the camera are culled")
}

func TestPerformancePNG(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]types.PerformancePoint, 0, 30)
	for i := 0; i < 30; i++ {
		points = append(points, types.PerformancePoint{Date: start.AddDate(0, 0, i), Value: 50000 + float64(i*100)})
	}

	img, err := PerformancePNG(points, true, types.ThemeDark, 600, 200)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))

	_, err = PerformancePNG(points[:1], true, types.ThemeLight, 600, 200)
	assert.Error(t, err)
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, PaletteFor(types.ThemeDark), PaletteFor(types.ThemeSystem))
	assert.NotEqual(t, PaletteFor(types.ThemeDark), PaletteFor(types.ThemeLight))
}
