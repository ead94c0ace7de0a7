// Package dashboard wires the widgets to the gateway and holds the shell
// state: selected asset, chart view and theme.
package dashboard

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-dashboard/internal/chart"
	"trading-dashboard/internal/metrics"
	"trading-dashboard/internal/notify"
	"trading-dashboard/internal/types"
)

const (
	DefaultAsset = "BTC/USD"
	DefaultView  = types.View3D
	DefaultTheme = types.ThemeDark

	themePreference = "theme"
)

var (
	ErrUnknownView  = errors.New("unknown chart view")
	ErrUnknownTheme = errors.New("unknown theme")
)

// PreferenceStore persists shell settings.
type PreferenceStore interface {
	GetPreference(key string) (string, bool, error)
	SetPreference(key, value string) error
}

type Options struct {
	Gateway           Gateway
	Notifier          *notify.Host
	Renderer          *chart.Renderer
	Preferences       PreferenceStore
	Metrics           *metrics.DashboardMetrics
	MarketInterval    time.Duration
	PortfolioInterval time.Duration
	ChartWidth        int
	ChartHeight       int
	Seed              int64
}

type Dashboard struct {
	Market      *MarketWidget
	Portfolio   *PortfolioWidget
	Performance *PerformanceWidget
	Alerts      *AlertBook
	Orders      *OrderForm
	Notifier    *notify.Host

	renderer    *chart.Renderer
	preferences PreferenceStore

	mu          sync.Mutex
	asset       string
	view        types.ViewMode
	chartWidth  int
	chartHeight int
	theme       types.Theme
	started     bool
}

func New(opts Options) *Dashboard {
	if opts.Notifier == nil {
		opts.Notifier = notify.NewHost(opts.Metrics)
	}
	if opts.Renderer == nil {
		opts.Renderer = chart.NewRenderer(chart.Options{Seed: opts.Seed, AutoFit: true, Metrics: opts.Metrics})
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	d := &Dashboard{
		Notifier:    opts.Notifier,
		Performance: NewPerformanceWidget(rand.New(rand.NewSource(seed)), time.Now()),
		Alerts:      NewAlertBook(opts.Notifier),
		Orders:      NewOrderForm(opts.Gateway, opts.Notifier),
		renderer:    opts.Renderer,
		preferences: opts.Preferences,
		asset:       DefaultAsset,
		view:        DefaultView,
		chartWidth:  opts.ChartWidth,
		chartHeight: opts.ChartHeight,
		theme:       DefaultTheme,
	}
	d.Market = NewMarketWidget(opts.Gateway, opts.MarketInterval, opts.Metrics, func(symbol string) {
		d.SelectAsset(symbol)
	})
	d.Portfolio = NewPortfolioWidget(opts.Gateway, opts.PortfolioInterval, opts.Metrics)
	d.loadTheme()
	return d
}

func (d *Dashboard) loadTheme() {
	if d.preferences == nil {
		return
	}
	value, ok, err := d.preferences.GetPreference(themePreference)
	if err != nil {
		log.Errorf("Failed to load theme preference: %v", err)
		return
	}
	if ok && validTheme(types.Theme(value)) {
		d.theme = types.Theme(value)
	}
}

// Start mounts the chart and starts the polling widgets.
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	d.renderer.Mount(d.asset, d.view, d.chartWidth, d.chartHeight)
	d.Market.Start(ctx)
	d.Portfolio.Start(ctx)
}

// Stop stops polling and unmounts the chart.
func (d *Dashboard) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return
	}
	d.started = false

	d.Market.Stop()
	d.Portfolio.Stop()
	d.renderer.Unmount()
}

// SelectAsset switches the chart to symbol. The chart is rebuilt only when
// the asset actually changes.
func (d *Dashboard) SelectAsset(symbol string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if symbol == "" || symbol == d.asset {
		return
	}
	d.asset = symbol
	d.remount()
}

func (d *Dashboard) SetView(view types.ViewMode) error {
	if view != types.View2D && view != types.View3D {
		return errors.Wrapf(ErrUnknownView, "%q", view)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if view == d.view {
		return nil
	}
	d.view = view
	d.remount()
	return nil
}

func (d *Dashboard) remount() {
	if d.started {
		d.renderer.Mount(d.asset, d.view, d.chartWidth, d.chartHeight)
	}
}

// ResizeChart records the container size and passes it to the chart.
func (d *Dashboard) ResizeChart(width, height int) error {
	d.mu.Lock()
	d.chartWidth, d.chartHeight = width, height
	d.mu.Unlock()
	return d.renderer.Resize(width, height)
}

func (d *Dashboard) Selection() (string, types.ViewMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.asset, d.view
}

func (d *Dashboard) Chart() *chart.Renderer { return d.renderer }

func (d *Dashboard) Theme() types.Theme {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.theme
}

func (d *Dashboard) SetTheme(theme types.Theme) error {
	if !validTheme(theme) {
		return errors.Wrapf(ErrUnknownTheme, "%q", theme)
	}

	d.mu.Lock()
	d.theme = theme
	d.mu.Unlock()

	if d.preferences != nil {
		if err := d.preferences.SetPreference(themePreference, string(theme)); err != nil {
			return errors.Wrap(err, "save theme")
		}
	}
	return nil
}

func validTheme(t types.Theme) bool {
	return t == types.ThemeLight || t == types.ThemeDark || t == types.ThemeSystem
}
