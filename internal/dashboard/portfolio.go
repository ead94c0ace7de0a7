package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"trading-dashboard/internal/metrics"
	"trading-dashboard/internal/types"
)

const PortfolioPollInterval = 30 * time.Second

// Reference prices used to value balances. Unknown assets count as 1.
var referencePrices = map[string]decimal.Decimal{
	"BTC":  decimal.NewFromInt(50000),
	"ETH":  decimal.NewFromInt(2500),
	"USD":  decimal.NewFromInt(1),
	"USDT": decimal.NewFromInt(1),
	"SOL":  decimal.NewFromInt(130),
	"ADA":  decimal.RequireFromString("0.5"),
}

var allocationPalette = []string{"blue", "green", "purple", "yellow", "pink", "indigo", "red", "orange"}

func ReferencePrice(asset string) decimal.Decimal {
	if p, ok := referencePrices[asset]; ok {
		return p
	}
	return decimal.NewFromInt(1)
}

type Allocation struct {
	Asset      string          `json:"asset"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
}

type Transaction struct {
	ID     string          `json:"id"`
	Asset  string          `json:"asset"`
	Side   types.OrderSide `json:"side"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Time   string          `json:"time"`
}

type PortfolioView struct {
	Balances     []types.PortfolioBalance `json:"balances"`
	Allocation   []Allocation             `json:"allocation"`
	TotalValue   decimal.Decimal          `json:"total_value"`
	Transactions []Transaction            `json:"transactions"`
	Loaded       bool                     `json:"loaded"`
}

// RecentTransactions is the static history panel.
func RecentTransactions() []Transaction {
	return []Transaction{
		{ID: "tx1", Asset: "BTC", Side: types.SideBuy, Amount: decimal.RequireFromString("0.05"), Price: decimal.RequireFromString("49876.32"), Time: "08:45"},
		{ID: "tx2", Asset: "ETH", Side: types.SideSell, Amount: decimal.RequireFromString("1.2"), Price: decimal.RequireFromString("2578.91"), Time: "Yesterday"},
		{ID: "tx3", Asset: "SOL", Side: types.SideBuy, Amount: decimal.NewFromInt(10), Price: decimal.RequireFromString("128.76"), Time: "Yesterday"},
	}
}

// Summarize drops empty balances and values the rest. Colors follow the
// balance order; the allocation is sorted by value, largest first.
func Summarize(p types.Portfolio) PortfolioView {
	view := PortfolioView{
		Balances:     make([]types.PortfolioBalance, 0, len(p.Assets)),
		Transactions: RecentTransactions(),
		Loaded:       true,
	}

	total := decimal.Zero
	for _, b := range p.Assets {
		if !b.Free.IsPositive() && !b.Locked.IsPositive() {
			continue
		}
		value := b.Free.Add(b.Locked).Mul(ReferencePrice(b.Asset))
		view.Allocation = append(view.Allocation, Allocation{
			Asset: b.Asset,
			Value: value,
			Color: allocationPalette[len(view.Balances)%len(allocationPalette)],
		})
		view.Balances = append(view.Balances, b)
		total = total.Add(value)
	}

	for i := range view.Allocation {
		if total.IsPositive() {
			view.Allocation[i].Percentage = view.Allocation[i].Value.Div(total).Mul(decimal.NewFromInt(100))
		}
	}
	sort.SliceStable(view.Allocation, func(i, j int) bool {
		return view.Allocation[i].Value.GreaterThan(view.Allocation[j].Value)
	})
	view.TotalValue = total
	return view
}

type PortfolioWidget struct {
	mu     sync.RWMutex
	view   PortfolioView
	poller *Poller[types.Portfolio]
}

func NewPortfolioWidget(gw Gateway, interval time.Duration, m *metrics.DashboardMetrics) *PortfolioWidget {
	if interval <= 0 {
		interval = PortfolioPollInterval
	}
	w := &PortfolioWidget{view: PortfolioView{Transactions: RecentTransactions()}}
	w.poller = NewPoller("portfolio", interval,
		func(ctx context.Context) (types.Portfolio, error) { return gw.Portfolio(ctx), nil },
		w.setPortfolio, m)
	return w
}

func (w *PortfolioWidget) Start(ctx context.Context) { w.poller.Start(ctx) }

func (w *PortfolioWidget) Stop() { w.poller.Stop() }

func (w *PortfolioWidget) Refresh(ctx context.Context) bool { return w.poller.Poll(ctx) }

func (w *PortfolioWidget) setPortfolio(p types.Portfolio) {
	view := Summarize(p)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = view
}

func (w *PortfolioWidget) View() PortfolioView {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.view
}
