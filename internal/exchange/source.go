// Package exchange is the data-access layer between the dashboard widgets and
// the exchange REST API or its mock stand-in.
package exchange

import (
	"context"

	"github.com/pkg/errors"

	"trading-dashboard/internal/types"
)

// ErrNotConfigured is returned by authenticated calls when no API credentials are set.
var ErrNotConfigured = errors.New("API not configured. Please set API key and secret")

type QuoteSource interface {
	MarketData(ctx context.Context) ([]types.AssetQuote, error)
}

type OrderSource interface {
	PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error)
}

type PortfolioSource interface {
	Portfolio(ctx context.Context) (types.Portfolio, error)
}

type Source interface {
	QuoteSource
	OrderSource
	PortfolioSource
}

type named interface {
	Name() string
}

func sourceName(src interface{}) string {
	if n, ok := src.(named); ok {
		return n.Name()
	}
	return "unknown"
}
