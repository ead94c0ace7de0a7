package chart

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/metrics"
	"trading-dashboard/internal/types"
)

type recordingBackend struct {
	mu       sync.Mutex
	frames   []Frame
	disposed bool
}

func (b *recordingBackend) Render(f Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, f)
	return nil
}

func (b *recordingBackend) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disposed = true
}

func (b *recordingBackend) frameCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

func (b *recordingBackend) isDisposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

type backendRecorder struct {
	mu       sync.Mutex
	backends []*recordingBackend
}

func (r *backendRecorder) New() Backend {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := &recordingBackend{}
	r.backends = append(r.backends, b)
	return b
}

func (r *backendRecorder) all() []*recordingBackend {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*recordingBackend(nil), r.backends...)
}

func newTestRenderer(rec *backendRecorder, m *metrics.DashboardMetrics) *Renderer {
	return NewRenderer(Options{
		NewBackend:    rec.New,
		FrameInterval: time.Millisecond,
		Seed:          42,
		AutoFit:       true,
		Metrics:       m,
	})
}

func TestMountRendersFrames(t *testing.T) {
	rec := &backendRecorder{}
	m := metrics.NewDashboardMetrics(prometheus.NewRegistry())
	r := newTestRenderer(rec, m)

	r.Mount("BTC/USD", types.View3D, 1024, 600)
	defer r.Unmount()

	assert.Equal(t, StateMounted, r.State())
	assert.Equal(t, 1, r.ActiveFrameLoops())

	backend := rec.all()[0]
	assert.Eventually(t, func() bool { return backend.frameCount() > 2 }, time.Second, time.Millisecond)

	status := r.Status()
	assert.Equal(t, "BTC/USD", status.Asset)
	assert.Equal(t, 1024, status.Width)
	assert.Len(t, status.Candles, DefaultCandleCount)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChartMounts))
}

func TestUnmountReleasesEverything(t *testing.T) {
	rec := &backendRecorder{}
	r := newTestRenderer(rec, nil)

	r.Mount("ETH/USD", types.View2D, 800, 500)
	scene := r.Scene()
	require.NotNil(t, scene)
	require.NotZero(t, scene.Children())

	r.Unmount()

	assert.Equal(t, StateUnmounted, r.State())
	assert.Zero(t, scene.Children())
	assert.Zero(t, r.ActiveFrameLoops())
	assert.True(t, rec.all()[0].isDisposed())
	assert.ErrorIs(t, r.Resize(100, 100), ErrNotMounted)

	frames := rec.all()[0].frameCount()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, frames, rec.all()[0].frameCount(), "no frames after teardown")
}

func TestRapidRemount(t *testing.T) {
	rec := &backendRecorder{}
	r := newTestRenderer(rec, nil)

	assets := []string{"BTC/USD", "ETH/USD", "SOL/USD", "ADA/USD"}
	for i := 0; i < 20; i++ {
		view := types.View3D
		if i%2 == 0 {
			view = types.View2D
		}
		r.Mount(assets[i%len(assets)], view, 800, 500)
		assert.Equal(t, 1, r.ActiveFrameLoops())
	}

	backends := rec.all()
	require.Len(t, backends, 20)
	for _, b := range backends[:19] {
		assert.True(t, b.isDisposed())
	}
	assert.False(t, backends[19].isDisposed())

	r.Unmount()
	assert.Zero(t, r.ActiveFrameLoops())
}

func TestMountFallbackSize(t *testing.T) {
	r := newTestRenderer(&backendRecorder{}, nil)
	r.Mount("BTC/USD", types.View3D, 0, 0)
	defer r.Unmount()

	status := r.Status()
	assert.Equal(t, FallbackWidth, status.Width)
	assert.Equal(t, FallbackHeight, status.Height)
}

func TestResizeKeepsGeometry(t *testing.T) {
	r := newTestRenderer(&backendRecorder{}, nil)
	r.Mount("BTC/USD", types.View3D, 800, 500)
	defer r.Unmount()

	before := r.Status()
	require.NoError(t, r.Resize(1000, 0))

	after := r.Status()
	assert.Equal(t, 1000, after.Width)
	assert.Equal(t, FallbackHeight, after.Height)
	assert.InDelta(t, 2.0, after.Camera.Aspect, 1e-9)
	assert.Equal(t, before.Candles, after.Candles)
	assert.Equal(t, before.Children, after.Children)
}

func TestUnmountWithoutMount(t *testing.T) {
	r := newTestRenderer(&backendRecorder{}, nil)
	r.Unmount()
	assert.Equal(t, StateUninitialized, r.State())
	assert.Equal(t, "uninitialized", r.Status().State)
}

func TestSnapshotWithPNGBackend(t *testing.T) {
	r := NewRenderer(Options{FrameInterval: time.Hour, Seed: 1, AutoFit: true})
	r.Mount("BTC/USD", types.View3D, 320, 200)
	defer r.Unmount()

	img, err := r.Snapshot()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestSnapshotNeedsMount(t *testing.T) {
	_, err := NewRenderer(Options{}).Snapshot()
	assert.ErrorIs(t, err, ErrNotMounted)
}

func TestOrbit(t *testing.T) {
	r := newTestRenderer(&backendRecorder{}, nil)
	assert.ErrorIs(t, r.Orbit(0.1, 0, 1), ErrNotMounted)

	r.Mount("BTC/USD", types.View2D, 800, 500)
	defer r.Unmount()
	assert.NoError(t, r.Orbit(0.1, 0.1, 0.9))
}
