package chart

import (
	"math"

	"trading-dashboard/internal/types"
)

type Vec3 struct {
	X, Y, Z float64
}

// Color is a 0xRRGGBB value.
type Color uint32

const (
	ColorRising          Color = 0x00ff7f
	ColorRisingEmissive  Color = 0x00a74d
	ColorFalling         Color = 0xff3060
	ColorFallingEmissive Color = 0xc41e3a
	ColorLink            Color = 0x6382ff
	ColorTrend           Color = 0x00ffff
	ColorClear           Color = 0x0a0a1a
)

type MeshKind string

const (
	KindBody   MeshKind = "body"
	KindWick   MeshKind = "wick"
	KindVolume MeshKind = "volume"
	KindLink   MeshKind = "link"
	KindTrend  MeshKind = "trend"
	KindGrid   MeshKind = "grid"
	KindPlane  MeshKind = "plane"
)

// Mesh is a box centered on Position, or a polyline when Points is set.
type Mesh struct {
	Kind     MeshKind `json:"kind"`
	Position Vec3     `json:"position"`
	Size     Vec3     `json:"size"`
	Color    Color    `json:"color"`
	Emissive Color    `json:"emissive,omitempty"`
	Opacity  float64  `json:"opacity"`
	Points   []Vec3   `json:"points,omitempty"`
}

const (
	bodyWidth       = 0.9
	bodyDepth3D     = 0.9
	bodyDepth2D     = 0.2
	bodyMinHeight   = 0.1
	wickWidth       = 0.15
	wickMinHeight   = 0.2
	volumeScale     = 0.03
	volumeMinHeight = 0.1
	volumeBaseY     = -5.0
	linkWidth       = 0.05

	FixedScale = 0.1
	// FitSpan is the vertical extent an automatic mapping stretches the
	// series range onto. FitFloor is where the series low lands, clear of
	// the volume bars.
	FitSpan  = 10.0
	FitFloor = volumeBaseY + 2
)

// Mapping converts prices to scene units: y = (price - Baseline) * Scale.
type Mapping struct {
	Scale    float64 `json:"scale"`
	Baseline float64 `json:"baseline"`
}

func FixedMapping() Mapping {
	return Mapping{Scale: FixedScale}
}

// FitMapping scales the series range onto [FitFloor, FitFloor+FitSpan]. A
// flat series keeps the fixed scale and sits in the middle of that band.
func FitMapping(candles []types.Candle) Mapping {
	lo, hi := SeriesRange(candles)
	if hi <= lo {
		return Mapping{Scale: FixedScale, Baseline: lo - (FitFloor+FitSpan/2)/FixedScale}
	}
	scale := FitSpan / (hi - lo)
	return Mapping{Scale: scale, Baseline: lo - FitFloor/scale}
}

func (m Mapping) Y(price float64) float64 {
	return (price - m.Baseline) * m.Scale
}

// CandleMeshes are the meshes owned by one candle. Volume and Link exist in
// 3D only.
type CandleMeshes struct {
	Index  int   `json:"index"`
	Body   Mesh  `json:"body"`
	Wick   Mesh  `json:"wick"`
	Volume *Mesh `json:"volume,omitempty"`
	Link   *Mesh `json:"link,omitempty"`
}

func (c *CandleMeshes) Count() int {
	n := 2
	if c.Volume != nil {
		n++
	}
	if c.Link != nil {
		n++
	}
	return n
}

// Geometry is the candle part of a scene.
type Geometry struct {
	Candles []CandleMeshes `json:"candles"`
	Trend   *Mesh          `json:"trend,omitempty"`
}

// CandleX places candle i so the series of length n is centered on x=0.
func CandleX(i, n int) float64 {
	return float64(i) - float64(n)/2
}

func candleColors(c types.Candle) (Color, Color) {
	if c.Rising() {
		return ColorRising, ColorRisingEmissive
	}
	return ColorFalling, ColorFallingEmissive
}

// BuildCandle maps one candle at position i of an n-long series.
func BuildCandle(c types.Candle, i, n int, view types.ViewMode, m Mapping) CandleMeshes {
	color, emissive := candleColors(c)
	x := CandleX(i, n)

	bodyHeight := max(math.Abs(c.Close-c.Open)*m.Scale, bodyMinHeight)
	depth := bodyDepth2D
	if view == types.View3D {
		depth = bodyDepth3D
	}
	bodyY := m.Y((c.Close + c.Open) / 2)

	meshes := CandleMeshes{
		Index: c.Index,
		Body: Mesh{
			Kind:     KindBody,
			Position: Vec3{X: x, Y: bodyY},
			Size:     Vec3{X: bodyWidth, Y: bodyHeight, Z: depth},
			Color:    color,
			Emissive: emissive,
			Opacity:  1,
		},
		Wick: Mesh{
			Kind:     KindWick,
			Position: Vec3{X: x, Y: m.Y((c.High + c.Low) / 2)},
			Size:     Vec3{X: wickWidth, Y: max((c.High-c.Low)*m.Scale, wickMinHeight), Z: wickWidth},
			Color:    color,
			Emissive: emissive,
			Opacity:  1,
		},
	}

	if view != types.View3D {
		return meshes
	}

	volumeHeight := max(c.Volume*volumeScale, volumeMinHeight)
	meshes.Volume = &Mesh{
		Kind:     KindVolume,
		Position: Vec3{X: x, Y: volumeBaseY},
		Size:     Vec3{X: bodyWidth, Y: volumeHeight, Z: bodyWidth},
		Color:    color,
		Emissive: emissive,
		Opacity:  0.7,
	}

	// No link when the body reaches down into its volume bar.
	linkHeight := bodyY - volumeBaseY - bodyHeight/2 - volumeHeight/2
	if linkHeight <= 0 {
		return meshes
	}
	meshes.Link = &Mesh{
		Kind:     KindLink,
		Position: Vec3{X: x, Y: (bodyY + volumeBaseY) / 2},
		Size:     Vec3{X: linkWidth, Y: linkHeight, Z: linkWidth},
		Color:    ColorLink,
		Opacity:  0.3,
	}
	return meshes
}

// BuildGeometry maps the whole series. 2D adds a trend line through the
// closes.
func BuildGeometry(candles []types.Candle, view types.ViewMode, m Mapping) Geometry {
	n := len(candles)
	g := Geometry{Candles: make([]CandleMeshes, 0, n)}
	for i, c := range candles {
		g.Candles = append(g.Candles, BuildCandle(c, i, n, view, m))
	}

	if view == types.View2D && n > 0 {
		points := make([]Vec3, 0, n)
		for i, c := range candles {
			points = append(points, Vec3{X: CandleX(i, n), Y: m.Y(c.Close)})
		}
		g.Trend = &Mesh{Kind: KindTrend, Color: ColorTrend, Opacity: 1, Points: points}
	}
	return g
}
