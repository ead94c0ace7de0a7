package chart

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"trading-dashboard/internal/types"
)

// Palette holds the raster colors for one dashboard theme.
type Palette struct {
	Background drawing.Color
	Text       drawing.Color
	Grid       drawing.Color
}

var palettes = map[types.Theme]Palette{
	types.ThemeDark: {
		Background: drawing.Color{R: 15, G: 23, B: 42, A: 255},
		Text:       drawing.Color{R: 200, G: 200, B: 200, A: 255},
		Grid:       drawing.Color{R: 100, G: 100, B: 100, A: 128},
	},
	types.ThemeLight: {
		Background: drawing.Color{R: 255, G: 255, B: 255, A: 255},
		Text:       drawing.Color{R: 55, G: 55, B: 55, A: 255},
		Grid:       drawing.Color{R: 200, G: 200, B: 200, A: 160},
	},
}

// PaletteFor resolves system to dark, the dashboard default.
func PaletteFor(theme types.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[types.ThemeDark]
}
