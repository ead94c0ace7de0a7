package dashboard

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/types"
)

func TestSummarizeMockPortfolio(t *testing.T) {
	view := Summarize(newFakeGateway().Portfolio(context.Background()))

	// BTC 0.6 * 50000, ETH 5 * 2500, USD 10500 * 1
	assert.True(t, decimal.NewFromInt(53000).Equal(view.TotalValue), view.TotalValue.String())
	require.Len(t, view.Allocation, 3)
	assert.Equal(t, "BTC", view.Allocation[0].Asset)
	assert.Equal(t, "ETH", view.Allocation[1].Asset)
	assert.Equal(t, "USD", view.Allocation[2].Asset)
	assert.Equal(t, "blue", view.Allocation[0].Color)
	assert.Equal(t, "green", view.Allocation[1].Color)

	sum := decimal.Zero
	for _, a := range view.Allocation {
		sum = sum.Add(a.Percentage)
	}
	assert.InDelta(t, 100, sum.InexactFloat64(), 1e-9)
	assert.Len(t, view.Transactions, 3)
}

func TestSummarizeDropsEmptyAndSortsByValue(t *testing.T) {
	view := Summarize(types.Portfolio{Assets: []types.PortfolioBalance{
		{Asset: "ADA", Free: decimal.NewFromInt(100)},
		{Asset: "XRP"},
		{Asset: "SOL", Free: decimal.NewFromInt(1)},
		{Asset: "DOT", Locked: decimal.NewFromInt(10)},
	}})

	require.Len(t, view.Balances, 3)
	assert.Equal(t, []string{"SOL", "ADA", "DOT"}, []string{view.Allocation[0].Asset, view.Allocation[1].Asset, view.Allocation[2].Asset})
	assert.Equal(t, "green", view.Allocation[0].Color, "colors follow balance order")
	assert.True(t, decimal.NewFromInt(10).Equal(view.Allocation[2].Value), "unknown assets are valued at 1")
}

func TestSummarizeEmpty(t *testing.T) {
	view := Summarize(types.Portfolio{})
	assert.True(t, view.TotalValue.IsZero())
	assert.Empty(t, view.Allocation)
}

func TestPortfolioWidgetRefresh(t *testing.T) {
	w := NewPortfolioWidget(newFakeGateway(), 0, nil)
	assert.False(t, w.View().Loaded)
	require.True(t, w.Refresh(context.Background()))
	assert.True(t, w.View().Loaded)
	assert.Len(t, w.View().Balances, 3)
}
