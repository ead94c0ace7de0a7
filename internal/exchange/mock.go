package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"trading-dashboard/internal/types"
)

// MockSource serves static market and portfolio records and synthesizes orders.
// It never fails.
type MockSource struct {
	mu       sync.RWMutex
	quotes   []types.AssetQuote
	balances []types.PortfolioBalance
	now      func() time.Time
}

func NewMockSource() *MockSource {
	return &MockSource{
		quotes:   defaultQuotes(),
		balances: defaultBalances(),
		now:      time.Now,
	}
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) MarketData(_ context.Context) ([]types.AssetQuote, error) {
	return m.Quotes(), nil
}

func (m *MockSource) PlaceOrder(_ context.Context, req types.OrderRequest) (types.Order, error) {
	return m.MockOrder(req), nil
}

func (m *MockSource) Portfolio(_ context.Context) (types.Portfolio, error) {
	return m.MockPortfolio(), nil
}

// Quotes returns a fresh copy of the mock market table.
func (m *MockSource) Quotes() []types.AssetQuote {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.AssetQuote, len(m.quotes))
	copy(out, m.quotes)
	return out
}

func (m *MockSource) MockPortfolio() types.Portfolio {
	m.mu.RLock()
	defer m.mu.RUnlock()

	assets := make([]types.PortfolioBalance, len(m.balances))
	copy(assets, m.balances)
	return types.Portfolio{Assets: assets}
}

// MockOrder builds an open order echoing the request. Market orders without a
// price carry none, limit orders without a price carry zero.
func (m *MockSource) MockOrder(req types.OrderRequest) types.Order {
	now := m.now()

	var price *decimal.Decimal
	switch {
	case req.Price != nil && !req.Price.IsZero():
		p := *req.Price
		price = &p
	case req.Type != types.TypeMarket:
		zero := decimal.Zero
		price = &zero
	}

	return types.Order{
		ID:        fmt.Sprintf("order-%d", now.UnixMilli()),
		Symbol:    req.Symbol,
		Side:      req.Side,
		Type:      req.Type,
		Price:     price,
		Amount:    req.Amount,
		Status:    types.StatusOpen,
		CreatedAt: now,
	}
}

func (m *MockSource) setFixtures(quotes []types.AssetQuote, balances []types.PortfolioBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(quotes) > 0 {
		m.quotes = quotes
	}
	if len(balances) > 0 {
		m.balances = balances
	}
}

func defaultQuotes() []types.AssetQuote {
	q := func(symbol, price, change, volume string) types.AssetQuote {
		return types.AssetQuote{
			Symbol:           symbol,
			Price:            decimal.RequireFromString(price),
			Change24hPercent: decimal.RequireFromString(change),
			Volume:           decimal.RequireFromString(volume),
		}
	}
	return []types.AssetQuote{
		q("BTC/USD", "50342.12", "2.34", "12987.45"),
		q("ETH/USD", "2654.87", "-1.22", "8765.32"),
		q("SOL/USD", "132.45", "5.67", "4532.12"),
		q("ADA/USD", "0.54", "0.87", "2345.67"),
		q("DOT/USD", "6.23", "-2.45", "1234.56"),
		q("XRP/USD", "0.52", "1.23", "9876.54"),
		q("AVAX/USD", "32.45", "4.56", "3456.78"),
		q("DOGE/USD", "0.087", "-3.21", "5678.90"),
	}
}

func defaultBalances() []types.PortfolioBalance {
	return []types.PortfolioBalance{
		{Asset: "BTC", Free: decimal.RequireFromString("0.5"), Locked: decimal.RequireFromString("0.1")},
		{Asset: "ETH", Free: decimal.RequireFromString("5.0"), Locked: decimal.Zero},
		{Asset: "USD", Free: decimal.NewFromInt(10000), Locked: decimal.NewFromInt(500)},
	}
}
