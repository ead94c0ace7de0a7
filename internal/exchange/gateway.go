package exchange

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-dashboard/config"
	"trading-dashboard/internal/breaker"
	"trading-dashboard/internal/metrics"
	"trading-dashboard/internal/types"
)

const (
	OpMarketData = "market_data"
	OpPlaceOrder = "place_order"
	OpPortfolio  = "portfolio"
)

type Options struct {
	Quotes     QuoteSource
	Orders     OrderSource
	Portfolio  PortfolioSource
	Fallback   *MockSource
	Configured bool
	Threshold  int
	ResetAfter time.Duration
	Metrics    *metrics.DashboardMetrics
}

// Gateway is the single entry point widgets use for data. None of its
// operations fail: any live error is answered with mock data.
type Gateway struct {
	quotes     QuoteSource
	orders     OrderSource
	portfolio  PortfolioSource
	fallback   *MockSource
	configured bool
	breakers   map[string]*breaker.Breaker
	metrics    *metrics.DashboardMetrics
}

func NewGateway(opts Options) *Gateway {
	if opts.Fallback == nil {
		opts.Fallback = NewMockSource()
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 3
	}
	if opts.ResetAfter <= 0 {
		opts.ResetAfter = 30 * time.Second
	}

	g := &Gateway{
		quotes:     opts.Quotes,
		orders:     opts.Orders,
		portfolio:  opts.Portfolio,
		fallback:   opts.Fallback,
		configured: opts.Configured,
		metrics:    opts.Metrics,
		breakers:   make(map[string]*breaker.Breaker),
	}
	if g.quotes == nil {
		g.quotes = g.fallback
	}
	if g.orders == nil {
		g.orders = g.fallback
	}
	if g.portfolio == nil {
		g.portfolio = g.fallback
	}
	for _, op := range []string{OpMarketData, OpPlaceOrder, OpPortfolio} {
		g.breakers[op] = breaker.New(op, opts.Threshold, opts.ResetAfter)
	}
	return g
}

// NewFromConfig picks the sources once from the configured environment.
func NewFromConfig(m *metrics.DashboardMetrics) *Gateway {
	fallback := NewMockSource()
	if path := config.GetString("mock_fixtures_path"); path != "" {
		if err := fallback.LoadFixtures(path); err != nil {
			log.Errorf("Failed to load mock fixtures: %v", err)
		}
	}

	creds := Credentials{
		APIKey:    config.GetString("api_key"),
		APISecret: config.GetString("api_secret"),
	}
	opts := Options{
		Fallback:   fallback,
		Configured: creds.Configured(),
		Threshold:  config.GetInt("breaker_threshold"),
		ResetAfter: config.GetDuration("breaker_reset"),
		Metrics:    m,
	}

	if !config.IsProduction() {
		log.Debug("Development environment, using mock data sources")
		return NewGateway(opts)
	}

	live := NewLiveSource(config.GetString("api_base_url"), creds, http.DefaultClient)
	opts.Quotes, opts.Orders, opts.Portfolio = live, live, live
	if config.GetString("market_provider") == "coinpaprika" {
		opts.Quotes = NewPaprikaSource(config.GetString("api_pro_key"), nil)
	}
	return NewGateway(opts)
}

// Configured reports whether exchange credentials were provided.
func (g *Gateway) Configured() bool {
	return g.configured
}

func (g *Gateway) MarketData(ctx context.Context) []types.AssetQuote {
	return call(g, OpMarketData, g.quotes,
		func() ([]types.AssetQuote, error) { return g.quotes.MarketData(ctx) },
		g.fallback.Quotes)
}

func (g *Gateway) PlaceOrder(ctx context.Context, req types.OrderRequest) types.Order {
	return call(g, OpPlaceOrder, g.orders,
		func() (types.Order, error) { return g.orders.PlaceOrder(ctx, req) },
		func() types.Order { return g.fallback.MockOrder(req) })
}

func (g *Gateway) Portfolio(ctx context.Context) types.Portfolio {
	return call(g, OpPortfolio, g.portfolio,
		func() (types.Portfolio, error) { return g.portfolio.Portfolio(ctx) },
		g.fallback.MockPortfolio)
}

func call[T any](g *Gateway, op string, src interface{}, live func() (T, error), mock func() T) T {
	if src == interface{}(g.fallback) {
		g.countRequest(op, g.fallback.Name())
		return mock()
	}

	var result T
	var notConfigured error
	err := g.breakers[op].Execute(func() error {
		var err error
		result, err = live()
		if errors.Is(err, ErrNotConfigured) {
			notConfigured = err
			return nil
		}
		return err
	})
	if err == nil && notConfigured != nil {
		err = notConfigured
	}

	if err != nil {
		log.Errorf("Error in %s, answering with mock data: %v", op, err)
		if g.metrics != nil {
			g.metrics.GatewayFallbacks.WithLabelValues(op).Inc()
		}
		g.countRequest(op, g.fallback.Name())
		return mock()
	}

	g.countRequest(op, sourceName(src))
	return result
}

func (g *Gateway) countRequest(op, source string) {
	if g.metrics != nil {
		g.metrics.GatewayRequests.WithLabelValues(op, source).Inc()
	}
}
