package chart

import (
	"math"
	"sort"
	"sync"

	"trading-dashboard/internal/types"
)

type LightKind string

const (
	LightAmbient     LightKind = "ambient"
	LightDirectional LightKind = "directional"
	LightPoint       LightKind = "point"
)

type Light struct {
	Kind      LightKind `json:"kind"`
	Color     Color     `json:"color"`
	Intensity float64   `json:"intensity"`
	Distance  float64   `json:"distance,omitempty"`
	Position  Vec3      `json:"position"`
}

const (
	gridSize         = 60.0
	gridDivisions    = 60
	gridY            = -7.0
	planeY           = -7.1
	lightOrbitRadius = 15.0
)

// Scene owns every renderable object of one chart lifecycle. Candles are
// keyed by their series index so they can be added and removed one at a
// time.
type Scene struct {
	mu      sync.RWMutex
	view    types.ViewMode
	mapping Mapping
	lights  []Light
	grid    *Mesh
	plane   *Mesh
	candles map[int]*CandleMeshes
	trend   *Mesh
	length  int
}

// NewScene builds lights, floor and the geometry for candles.
func NewScene(candles []types.Candle, view types.ViewMode, m Mapping) *Scene {
	s := &Scene{
		view:    view,
		mapping: m,
		candles: make(map[int]*CandleMeshes, len(candles)),
		length:  len(candles),
	}

	s.lights = []Light{
		{Kind: LightAmbient, Color: 0x4c6584, Intensity: 0.7},
		{Kind: LightDirectional, Color: 0x6382ff, Intensity: 1.2, Position: Vec3{X: 5, Y: 15, Z: 10}},
		{Kind: LightPoint, Color: 0x6382ff, Intensity: 1, Distance: 40, Position: Vec3{X: -10, Y: 10, Z: 5}},
		{Kind: LightPoint, Color: 0xff6b6b, Intensity: 0.8, Distance: 40, Position: Vec3{X: 10, Y: 8, Z: 5}},
	}
	s.grid = &Mesh{Kind: KindGrid, Position: Vec3{Y: gridY}, Size: Vec3{X: gridSize, Z: gridSize}, Color: 0x6382ff, Opacity: 1}
	s.plane = &Mesh{Kind: KindPlane, Position: Vec3{Y: planeY}, Size: Vec3{X: gridSize, Z: gridSize}, Color: 0x162447, Opacity: 0.4}

	g := BuildGeometry(candles, view, m)
	for i := range g.Candles {
		c := g.Candles[i]
		s.candles[c.Index] = &c
	}
	s.trend = g.Trend
	return s
}

func (s *Scene) View() types.ViewMode { return s.view }

func (s *Scene) Mapping() Mapping { return s.mapping }

// Children counts every object in the scene.
func (s *Scene) Children() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.lights)
	if s.grid != nil {
		n++
	}
	if s.plane != nil {
		n++
	}
	if s.trend != nil {
		n++
	}
	for _, c := range s.candles {
		n += c.Count()
	}
	return n
}

// AddCandle inserts or replaces the meshes for c at position i of the series.
func (s *Scene) AddCandle(c types.Candle, i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meshes := BuildCandle(c, i, s.length, s.view, s.mapping)
	s.candles[c.Index] = &meshes
}

// RemoveCandle drops the meshes keyed by index. It reports whether any were
// present.
func (s *Scene) RemoveCandle(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.candles[index]; !ok {
		return false
	}
	delete(s.candles, index)
	return true
}

// Candles returns the candle meshes ordered by index.
func (s *Scene) Candles() []CandleMeshes {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CandleMeshes, 0, len(s.candles))
	for _, c := range s.candles {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (s *Scene) Trend() *Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trend
}

func (s *Scene) Lights() []Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Light(nil), s.lights...)
}

// AnimateLights moves the two point lights along their orbits for t seconds
// of elapsed time.
func (s *Scene) AnimateLights(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase := 0.0
	for i := range s.lights {
		if s.lights[i].Kind != LightPoint {
			continue
		}
		s.lights[i].Position.X = math.Sin(t*0.3+phase) * lightOrbitRadius
		s.lights[i].Position.Z = math.Cos(t*0.2+phase) * lightOrbitRadius
		phase += math.Pi
	}
}

// Center is the point the camera orbits around.
func (s *Scene) Center() Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.candles) == 0 {
		return Vec3{}
	}
	var sum float64
	for _, c := range s.candles {
		sum += c.Body.Position.Y
	}
	return Vec3{Y: sum / float64(len(s.candles))}
}

// Clear removes every child.
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lights = nil
	s.grid = nil
	s.plane = nil
	s.trend = nil
	s.candles = make(map[int]*CandleMeshes)
}
