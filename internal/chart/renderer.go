package chart

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-dashboard/internal/metrics"
	"trading-dashboard/internal/types"
)

const (
	FallbackWidth  = 800
	FallbackHeight = 500

	defaultFrameInterval = time.Second / 60
)

var ErrNotMounted = errors.New("chart is not mounted")

type State int

const (
	StateUninitialized State = iota
	StateMounted
	StateUnmounted
)

func (s State) String() string {
	switch s {
	case StateMounted:
		return "mounted"
	case StateUnmounted:
		return "unmounted"
	default:
		return "uninitialized"
	}
}

// Frame is everything a backend needs to draw one image.
type Frame struct {
	Asset  string
	Scene  *Scene
	Camera *Camera
	Width  int
	Height int
}

// Backend draws frames. A backend is created per mount and disposed on
// teardown.
type Backend interface {
	Render(f Frame) error
	Dispose()
}

// Snapshotter is implemented by backends that keep their last image.
type Snapshotter interface {
	Snapshot() []byte
}

type Options struct {
	NewBackend    func() Backend
	FrameInterval time.Duration
	CandleCount   int
	StartPrice    float64
	// Seed fixes the candle generator; zero seeds from the clock.
	Seed    int64
	AutoFit bool
	Metrics *metrics.DashboardMetrics
}

// Renderer owns the chart lifecycle: every Mount builds a fresh scene and
// frame loop, and tears the previous one down first.
type Renderer struct {
	mu   sync.Mutex
	opts Options
	rng  *rand.Rand

	state  State
	asset  string
	view   types.ViewMode
	width  int
	height int

	candles  []types.Candle
	scene    *Scene
	camera   *Camera
	controls *OrbitControls
	backend  Backend

	// frameMu serializes drawing against resize and teardown.
	frameMu   sync.Mutex
	listening bool
	cancel    context.CancelFunc
	done      chan struct{}
	loops     atomic.Int32
	started   time.Time
}

func NewRenderer(opts Options) *Renderer {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	if opts.CandleCount <= 0 {
		opts.CandleCount = DefaultCandleCount
	}
	if opts.StartPrice <= 0 {
		opts.StartPrice = DefaultStartPrice
	}
	if opts.NewBackend == nil {
		opts.NewBackend = func() Backend { return NewPNGBackend() }
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Renderer{opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// measure substitutes the fallback size for a container that reports zero.
func measure(width, height int) (int, int) {
	if width <= 0 {
		width = FallbackWidth
	}
	if height <= 0 {
		height = FallbackHeight
	}
	return width, height
}

// Mount builds the scene for asset and view and starts the frame loop. A
// mounted chart is torn down completely before the new one is built.
func (r *Renderer) Mount(asset string, view types.ViewMode, width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateMounted {
		r.teardown()
	}

	r.width, r.height = measure(width, height)
	r.asset, r.view = asset, view
	log.Debugf("Initializing chart for %s (%s) with dimensions: %dx%d", asset, view, r.width, r.height)

	r.candles = GenerateCandles(r.rng, r.opts.CandleCount, r.opts.StartPrice)
	mapping := FixedMapping()
	if r.opts.AutoFit {
		mapping = FitMapping(r.candles)
	}
	r.scene = NewScene(r.candles, view, mapping)
	r.camera = NewCamera(view, r.width, r.height, r.scene.Center())
	r.controls = NewOrbitControls(r.camera)
	r.controls.Update()
	r.backend = r.opts.NewBackend()
	r.listening = true

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.started = time.Now()
	r.loops.Add(1)
	go r.frameLoop(ctx, r.frameState(), r.done)

	r.state = StateMounted
	if r.opts.Metrics != nil {
		r.opts.Metrics.ChartMounts.Inc()
	}
}

type frameState struct {
	asset    string
	scene    *Scene
	camera   *Camera
	controls *OrbitControls
	backend  Backend
}

func (r *Renderer) frameState() frameState {
	return frameState{asset: r.asset, scene: r.scene, camera: r.camera, controls: r.controls, backend: r.backend}
}

func (r *Renderer) frameLoop(ctx context.Context, fs frameState, done chan struct{}) {
	defer close(done)
	defer r.loops.Add(-1)

	ticker := time.NewTicker(r.opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.frameMu.Lock()
			if ctx.Err() == nil {
				r.drawLocked(fs, time.Since(r.started).Seconds())
			}
			r.frameMu.Unlock()
		}
	}
}

func (r *Renderer) drawLocked(fs frameState, elapsed float64) {
	fs.controls.Update()
	fs.scene.AnimateLights(elapsed)
	err := fs.backend.Render(Frame{
		Asset:  fs.asset,
		Scene:  fs.scene,
		Camera: fs.camera,
		Width:  r.width,
		Height: r.height,
	})
	if err != nil {
		log.Debugf("Failed to render chart frame: %v", err)
		return
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.ChartFrames.Inc()
	}
}

// Resize updates the projection without rebuilding geometry. It is a no-op
// once the resize listener is detached.
func (r *Renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateMounted || !r.listening {
		return ErrNotMounted
	}

	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	r.width, r.height = measure(width, height)
	r.camera.SetSize(r.width, r.height)
	return nil
}

// Unmount tears the chart down. It is safe to call when nothing is mounted.
func (r *Renderer) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateMounted {
		return
	}
	r.teardown()
	r.state = StateUnmounted
}

// teardown cancels the frame loop, removes every scene child, disposes the
// backend and controls, then detaches the resize listener.
func (r *Renderer) teardown() {
	r.cancel()
	<-r.done

	r.frameMu.Lock()
	r.scene.Clear()
	r.backend.Dispose()
	r.controls.Dispose()
	r.listening = false
	r.frameMu.Unlock()

	log.Debugf("Chart for %s (%s) torn down", r.asset, r.view)
}

// Orbit forwards user input to the orbit controls.
func (r *Renderer) Orbit(dTheta, dPhi, zoom float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateMounted {
		return ErrNotMounted
	}
	r.controls.Rotate(dTheta, dPhi)
	if zoom != 0 {
		r.controls.Zoom(zoom)
	}
	return nil
}

// Snapshot returns the latest image, drawing one if the loop has not yet.
func (r *Renderer) Snapshot() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateMounted {
		return nil, ErrNotMounted
	}
	snap, ok := r.backend.(Snapshotter)
	if !ok {
		return nil, errors.New("chart backend keeps no frames")
	}

	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	if img := snap.Snapshot(); img != nil {
		return img, nil
	}
	r.drawLocked(r.frameState(), time.Since(r.started).Seconds())
	if img := snap.Snapshot(); img != nil {
		return img, nil
	}
	return nil, errors.New("chart frame could not be rendered")
}

// ActiveFrameLoops counts frame loops that have not exited yet.
func (r *Renderer) ActiveFrameLoops() int {
	return int(r.loops.Load())
}

// Status describes the mounted chart.
type Status struct {
	State    string         `json:"state"`
	Asset    string         `json:"asset,omitempty"`
	View     types.ViewMode `json:"view,omitempty"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Children int            `json:"children"`
	Mapping  Mapping        `json:"mapping"`
	Camera   *Camera        `json:"camera,omitempty"`
	Candles  []types.Candle `json:"candles,omitempty"`
}

func (r *Renderer) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Status{State: r.state.String()}
	if r.state != StateMounted {
		return s
	}

	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	camera := *r.camera
	s.Asset = r.asset
	s.View = r.view
	s.Width, s.Height = r.width, r.height
	s.Children = r.scene.Children()
	s.Mapping = r.scene.Mapping()
	s.Camera = &camera
	s.Candles = append([]types.Candle(nil), r.candles...)
	return s
}

// Scene returns the mounted scene, or nil.
func (r *Renderer) Scene() *Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateMounted {
		return nil
	}
	return r.scene
}

func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
