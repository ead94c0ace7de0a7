package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"trading-dashboard/internal/chart"
	"trading-dashboard/internal/exchange"
	"trading-dashboard/internal/notify"
	"trading-dashboard/internal/types"
)

// fakeGateway serves the mock data set and records placed orders.
type fakeGateway struct {
	mu         sync.Mutex
	mock       *exchange.MockSource
	configured bool
	quotes     []types.AssetQuote
	orders     []types.OrderRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{mock: exchange.NewMockSource()}
}

func (g *fakeGateway) MarketData(_ context.Context) []types.AssetQuote {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.quotes != nil {
		return g.quotes
	}
	return g.mock.Quotes()
}

func (g *fakeGateway) PlaceOrder(_ context.Context, req types.OrderRequest) types.Order {
	g.mu.Lock()
	g.orders = append(g.orders, req)
	g.mu.Unlock()
	return g.mock.MockOrder(req)
}

func (g *fakeGateway) Portfolio(_ context.Context) types.Portfolio {
	return g.mock.MockPortfolio()
}

func (g *fakeGateway) Configured() bool { return g.configured }

type nopBackend struct{}

func (nopBackend) Render(chart.Frame) error { return nil }
func (nopBackend) Dispose()                 {}

func newTestRenderer() *chart.Renderer {
	return chart.NewRenderer(chart.Options{
		NewBackend:    func() chart.Backend { return nopBackend{} },
		FrameInterval: time.Millisecond,
		Seed:          1,
	})
}

// recordingNotifier keeps toasts in memory.
type recordingNotifier struct {
	mu     sync.Mutex
	toasts []notify.Toast
}

func (n *recordingNotifier) Show(title, description string, variant notify.Variant) notify.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := notify.Toast{Title: title, Description: description, Variant: variant}
	n.toasts = append(n.toasts, t)
	return t
}

func (n *recordingNotifier) all() []notify.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Toast(nil), n.toasts...)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
