package dashboard

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/types"
)

func TestGeneratePerformance(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	p := GeneratePerformance(rand.New(rand.NewSource(9)), now)

	require.Len(t, p.Points, 30)
	assert.Equal(t, now.AddDate(0, 0, -30), p.Points[0].Date)
	prev := 50000.0
	for _, pt := range p.Points {
		ratio := pt.Value / prev
		assert.GreaterOrEqual(t, ratio, 0.985)
		assert.Less(t, ratio, 1.025)
		prev = pt.Value
	}
	assert.InDelta(t, (p.EndValue-p.StartValue)/p.StartValue*100, p.ChangePercent, 1e-9)
	assert.Equal(t, p.ChangePercent >= 0, p.Positive)
}

func TestPerformanceWidgetPNG(t *testing.T) {
	w := NewPerformanceWidget(rand.New(rand.NewSource(1)), time.Now())
	img, err := w.PNG(types.ThemeLight, 0, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestPerformanceChartCache(t *testing.T) {
	clock := time.Now()
	w := NewPerformanceWidget(rand.New(rand.NewSource(1)), clock)
	w.now = func() time.Time { return clock }

	first, err := w.PNG(types.ThemeDark, 400, 200)
	require.NoError(t, err)
	assert.Len(t, w.cache, 1)

	second, err := w.PNG(types.ThemeDark, 400, 200)
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0], "cached image is reused")

	_, err = w.PNG(types.ThemeLight, 400, 200)
	require.NoError(t, err)
	assert.Len(t, w.cache, 2)

	clock = clock.Add(chartCacheTTL + time.Second)
	third, err := w.PNG(types.ThemeDark, 400, 200)
	require.NoError(t, err)
	assert.NotSame(t, &first[0], &third[0], "expired image is rendered again")
}
