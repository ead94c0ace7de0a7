package chart

import (
	"bytes"
	"math"
	"sort"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PNGBackend projects the scene with a perspective camera and rasterizes it
// through go-chart's PNG renderer. It keeps the last encoded frame.
type PNGBackend struct {
	mu       sync.Mutex
	font     *truetype.Font
	last     []byte
	disposed bool
}

func NewPNGBackend() *PNGBackend {
	font, err := gochart.GetDefaultFont()
	if err != nil {
		log.Warnf("Chart labels disabled, default font unavailable: %v", err)
	}
	return &PNGBackend{font: font}
}

func (b *PNGBackend) Render(f Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return errors.New("backend disposed")
	}

	r, err := gochart.PNG(f.Width, f.Height)
	if err != nil {
		return errors.Wrap(err, "create png renderer")
	}

	p := newProjector(f.Camera, f.Width, f.Height)
	fillRect(r, 0, 0, f.Width, f.Height, rgba(ColorClear, 1))
	drawGrid(r, p)

	candles := f.Scene.Candles()
	shapes := make([]shape, 0, len(candles)*4)
	for _, c := range candles {
		shapes = append(shapes, boxShape(p, c.Body), boxShape(p, c.Wick))
		if c.Volume != nil {
			shapes = append(shapes, boxShape(p, *c.Volume))
		}
		if c.Link != nil {
			shapes = append(shapes, boxShape(p, *c.Link))
		}
	}
	// far to near
	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].depth > shapes[j].depth })
	for _, s := range shapes {
		s.draw(r)
	}

	if trend := f.Scene.Trend(); trend != nil {
		drawPolyline(r, p, trend.Points, rgba(trend.Color, trend.Opacity), 2)
	}

	if b.font != nil && f.Asset != "" {
		r.SetFont(b.font)
		r.SetFontColor(drawing.ColorWhite)
		r.SetFontSize(12)
		r.Text(f.Asset, 10, 20)
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return errors.Wrap(err, "encode png frame")
	}
	b.last = buf.Bytes()
	return nil
}

func (b *PNGBackend) Snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

func (b *PNGBackend) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disposed = true
	b.last = nil
}

func rgba(c Color, opacity float64) drawing.Color {
	return drawing.Color{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255)),
	}
}

// projector maps world coordinates to pixels for one camera.
type projector struct {
	cam                *Camera
	right, up, forward Vec3
	focal              float64
	width, height      float64
}

func newProjector(c *Camera, width, height int) projector {
	forward := normalize(sub(c.Target, c.Position))
	right := normalize(cross(forward, Vec3{Y: 1}))
	return projector{
		cam:     c,
		forward: forward,
		right:   right,
		up:      cross(right, forward),
		focal:   1 / math.Tan(c.Fov*math.Pi/360),
		width:   float64(width),
		height:  float64(height),
	}
}

// project returns pixel coordinates and view depth. ok is false for points
// behind the near plane.
func (p projector) project(v Vec3) (x, y int, depth float64, ok bool) {
	d := sub(v, p.cam.Position)
	depth = dot(d, p.forward)
	if depth <= p.cam.Near || depth >= p.cam.Far {
		return 0, 0, depth, false
	}
	ndcX := dot(d, p.right) * p.focal / p.cam.Aspect / depth
	ndcY := dot(d, p.up) * p.focal / depth
	x = int(math.Round((ndcX + 1) / 2 * p.width))
	y = int(math.Round((1 - ndcY) / 2 * p.height))
	return x, y, depth, true
}

type shape struct {
	points [][2]int
	fill   drawing.Color
	depth  float64
}

func (s shape) draw(r gochart.Renderer) {
	if len(s.points) < 3 {
		return
	}
	r.SetFillColor(s.fill)
	r.SetStrokeColor(s.fill)
	r.SetStrokeWidth(1)
	r.MoveTo(s.points[0][0], s.points[0][1])
	for _, pt := range s.points[1:] {
		r.LineTo(pt[0], pt[1])
	}
	r.Close()
	r.FillStroke()
}

// boxShape draws the camera-facing face of a box.
func boxShape(p projector, m Mesh) shape {
	hx, hy, hz := m.Size.X/2, m.Size.Y/2, m.Size.Z/2
	c := m.Position
	z := c.Z + hz
	if dot(p.forward, Vec3{Z: 1}) > 0 {
		z = c.Z - hz
	}
	corners := []Vec3{
		{X: c.X - hx, Y: c.Y - hy, Z: z},
		{X: c.X + hx, Y: c.Y - hy, Z: z},
		{X: c.X + hx, Y: c.Y + hy, Z: z},
		{X: c.X - hx, Y: c.Y + hy, Z: z},
	}

	s := shape{fill: rgba(m.Color, m.Opacity)}
	var depth float64
	for _, corner := range corners {
		x, y, d, ok := p.project(corner)
		if !ok {
			return shape{}
		}
		s.points = append(s.points, [2]int{x, y})
		depth += d
	}
	s.depth = depth / float64(len(corners))
	return s
}

func drawGrid(r gochart.Renderer, p projector) {
	half := gridSize / 2
	step := gridSize / gridDivisions
	color := rgba(0x162447, 1)
	for i := 0; i <= gridDivisions; i++ {
		off := -half + float64(i)*step
		line := color
		if i == gridDivisions/2 {
			line = rgba(0x6382ff, 1)
		}
		drawPolyline(r, p, []Vec3{{X: off, Y: gridY, Z: -half}, {X: off, Y: gridY, Z: half}}, line, 1)
		drawPolyline(r, p, []Vec3{{X: -half, Y: gridY, Z: off}, {X: half, Y: gridY, Z: off}}, line, 1)
	}
}

func drawPolyline(r gochart.Renderer, p projector, points []Vec3, color drawing.Color, width float64) {
	r.SetStrokeColor(color)
	r.SetStrokeWidth(width)
	pen := false
	for _, pt := range points {
		x, y, _, ok := p.project(pt)
		if !ok {
			pen = false
			continue
		}
		if pen {
			r.LineTo(x, y)
		} else {
			r.MoveTo(x, y)
			pen = true
		}
	}
	r.Stroke()
}

func fillRect(r gochart.Renderer, x0, y0, x1, y1 int, color drawing.Color) {
	r.SetFillColor(color)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}

func sub(a, b Vec3) Vec3 { return Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }

func dot(a, b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func cross(a, b Vec3) Vec3 {
	return Vec3{X: a.Y*b.Z - a.Z*b.Y, Y: a.Z*b.X - a.X*b.Z, Z: a.X*b.Y - a.Y*b.X}
}

func normalize(v Vec3) Vec3 {
	l := math.Sqrt(dot(v, v))
	if l == 0 {
		return v
	}
	return Vec3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}
