package dashboard

import (
	"context"

	"trading-dashboard/internal/types"
)

// Gateway is the data access every widget shares. Its operations always
// return a usable value.
type Gateway interface {
	MarketData(ctx context.Context) []types.AssetQuote
	PlaceOrder(ctx context.Context, req types.OrderRequest) types.Order
	Portfolio(ctx context.Context) types.Portfolio
	Configured() bool
}
