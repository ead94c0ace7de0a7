package chart

import (
	"math"
	"sync"

	"trading-dashboard/internal/types"
)

const (
	cameraFov  = 60.0
	cameraNear = 0.1
	cameraFar  = 1000.0

	controlsDamping     = 0.25
	controlsMinDistance = 5.0
	controlsMaxDistance = 50.0
	controlsMaxPolar    = math.Pi / 1.5
)

type Camera struct {
	Fov      float64 `json:"fov"`
	Aspect   float64 `json:"aspect"`
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
	Position Vec3    `json:"position"`
	Target   Vec3    `json:"target"`
}

// NewCamera returns a perspective camera placed for view, looking at target.
func NewCamera(view types.ViewMode, width, height int, target Vec3) *Camera {
	c := &Camera{Fov: cameraFov, Near: cameraNear, Far: cameraFar, Target: target}
	c.SetSize(width, height)
	if view == types.View3D {
		c.Position = Vec3{X: target.X - 15, Y: target.Y + 15, Z: target.Z + 20}
	} else {
		c.Position = Vec3{X: target.X, Y: target.Y, Z: target.Z + 20}
	}
	return c
}

// SetSize recomputes the projection for a new viewport.
func (c *Camera) SetSize(width, height int) {
	if height <= 0 {
		c.Aspect = 1
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// spherical is the camera offset from the target: radius, polar angle from
// +Y and azimuth around Y.
type spherical struct {
	radius, phi, theta float64
}

func toSpherical(v Vec3) spherical {
	r := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if r == 0 {
		return spherical{}
	}
	return spherical{
		radius: r,
		phi:    math.Acos(math.Max(-1, math.Min(1, v.Y/r))),
		theta:  math.Atan2(v.X, v.Z),
	}
}

func (s spherical) vec() Vec3 {
	sinPhi := math.Sin(s.phi)
	return Vec3{
		X: s.radius * sinPhi * math.Sin(s.theta),
		Y: s.radius * math.Cos(s.phi),
		Z: s.radius * sinPhi * math.Cos(s.theta),
	}
}

// OrbitControls rotate and zoom a camera around its target with damping.
type OrbitControls struct {
	mu          sync.Mutex
	camera      *Camera
	Damping     float64
	MinDistance float64
	MaxDistance float64
	MaxPolar    float64
	deltaTheta  float64
	deltaPhi    float64
	scale       float64
	disposed    bool
}

func NewOrbitControls(c *Camera) *OrbitControls {
	return &OrbitControls{
		camera:      c,
		Damping:     controlsDamping,
		MinDistance: controlsMinDistance,
		MaxDistance: controlsMaxDistance,
		MaxPolar:    controlsMaxPolar,
		scale:       1,
	}
}

// Rotate queues an orbit by the given azimuth and polar deltas in radians.
func (o *OrbitControls) Rotate(dTheta, dPhi float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disposed {
		return
	}
	o.deltaTheta += dTheta
	o.deltaPhi += dPhi
}

// Zoom queues a distance change; factors below one move closer.
func (o *OrbitControls) Zoom(factor float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disposed || factor <= 0 {
		return
	}
	o.scale *= factor
}

// Update applies queued input to the camera and clamps it to the allowed
// distance and polar range. The pending rotation decays by the damping
// factor each call.
func (o *OrbitControls) Update() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disposed {
		return
	}

	c := o.camera
	offset := Vec3{X: c.Position.X - c.Target.X, Y: c.Position.Y - c.Target.Y, Z: c.Position.Z - c.Target.Z}
	s := toSpherical(offset)

	s.theta += o.deltaTheta * o.Damping
	s.phi += o.deltaPhi * o.Damping
	s.phi = math.Max(1e-6, math.Min(o.MaxPolar, s.phi))
	s.radius = math.Max(o.MinDistance, math.Min(o.MaxDistance, s.radius*o.scale))

	v := s.vec()
	c.Position = Vec3{X: c.Target.X + v.X, Y: c.Target.Y + v.Y, Z: c.Target.Z + v.Z}

	o.deltaTheta *= 1 - o.Damping
	o.deltaPhi *= 1 - o.Damping
	o.scale = 1
}

func (o *OrbitControls) Dispose() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.disposed = true
	o.deltaTheta, o.deltaPhi, o.scale = 0, 0, 1
}

func (o *OrbitControls) Disposed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.disposed
}

// Distance is the current camera distance from its target.
func (o *OrbitControls) Distance() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := o.camera
	return toSpherical(Vec3{X: c.Position.X - c.Target.X, Y: c.Position.Y - c.Target.Y, Z: c.Position.Z - c.Target.Z}).radius
}
