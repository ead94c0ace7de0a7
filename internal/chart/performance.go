package chart

import (
	"bytes"
	"math"
	"time"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"trading-dashboard/internal/types"
	"trading-dashboard/lib/helpers"
)

var (
	ColorPositive = drawing.ColorFromHex("06b6d4")
	ColorNegative = drawing.ColorFromHex("f43f5e")
)

const performanceDotEvery = 6

// PerformancePNG draws the value series as a filled line, cyan when the
// period gained and rose when it lost, with a dot every sixth sample.
func PerformancePNG(points []types.PerformancePoint, positive bool, theme types.Theme, width, height int) ([]byte, error) {
	if len(points) < 2 {
		return nil, errors.New("performance chart needs at least two points")
	}
	width, height = measure(width, height)

	line := ColorNegative
	if positive {
		line = ColorPositive
	}
	palette := PaletteFor(theme)

	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		xs = append(xs, p.Date)
		ys = append(ys, p.Value)
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}

	graph := gochart.Chart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			FillColor: palette.Background,
			Padding:   gochart.Box{Top: 20, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: gochart.Style{FillColor: palette.Background},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
			Style:          gochart.Style{FontColor: palette.Text, StrokeColor: palette.Grid},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo * 0.95, Max: hi * 1.05},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return helpers.FormatCompact(f)
				}
				return ""
			},
			Style: gochart.Style{FontColor: palette.Text, StrokeColor: palette.Grid},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "performance",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: line,
					StrokeWidth: 2,
					FillColor:   line.WithAlpha(40),
					DotWidthProvider: func(_, _ gochart.Range, index int, _, _ float64) float64 {
						if index%performanceDotEvery == 0 {
							return 3
						}
						return 0
					},
					DotColorProvider: func(_, _ gochart.Range, _ int, _, _ float64) drawing.Color {
						return line
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "render performance chart")
	}
	return buf.Bytes(), nil
}
