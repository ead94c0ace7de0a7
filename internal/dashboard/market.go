package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"trading-dashboard/internal/metrics"
	"trading-dashboard/internal/types"
	"trading-dashboard/lib/helpers"
)

const MarketPollInterval = 10 * time.Second

type MarketRow struct {
	Symbol           string          `json:"symbol"`
	Price            decimal.Decimal `json:"price"`
	Change24hPercent decimal.Decimal `json:"change_24h"`
	Volume           decimal.Decimal `json:"volume"`
	Positive         bool            `json:"positive"`
	PriceText        string          `json:"price_text"`
	ChangeText       string          `json:"change_text"`
	VolumeText       string          `json:"volume_text"`
}

var quoteSuffixes = []struct{ suffix, quote string }{
	{"USDT", "USD"},
	{"USD", "USD"},
	{"BTC", "BTC"},
	{"ETH", "ETH"},
}

// FormatSymbol turns exchange pairs like BTCUSDT into BTC/USD. Symbols that
// already carry a separator or have no known quote asset are kept.
func FormatSymbol(symbol string) string {
	if strings.Contains(symbol, "/") {
		return symbol
	}
	for _, s := range quoteSuffixes {
		if base, ok := strings.CutSuffix(symbol, s.suffix); ok && base != "" {
			return base + "/" + s.quote
		}
	}
	return symbol
}

// MarketWidget holds the latest market table.
type MarketWidget struct {
	mu       sync.RWMutex
	rows     []MarketRow
	loaded   bool
	poller   *Poller[[]types.AssetQuote]
	onSelect func(symbol string)
}

func NewMarketWidget(gw Gateway, interval time.Duration, m *metrics.DashboardMetrics, onSelect func(string)) *MarketWidget {
	if interval <= 0 {
		interval = MarketPollInterval
	}
	w := &MarketWidget{onSelect: onSelect}
	w.poller = NewPoller("market", interval,
		func(ctx context.Context) ([]types.AssetQuote, error) { return gw.MarketData(ctx), nil },
		w.setQuotes, m)
	return w
}

func (w *MarketWidget) Start(ctx context.Context) { w.poller.Start(ctx) }

func (w *MarketWidget) Stop() { w.poller.Stop() }

// Refresh polls immediately.
func (w *MarketWidget) Refresh(ctx context.Context) bool { return w.poller.Poll(ctx) }

func (w *MarketWidget) setQuotes(quotes []types.AssetQuote) {
	rows := make([]MarketRow, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, MarketRow{
			Symbol:           FormatSymbol(q.Symbol),
			Price:            q.Price,
			Change24hPercent: q.Change24hPercent,
			Volume:           q.Volume,
			Positive:         !q.Change24hPercent.IsNegative(),
			PriceText:        "$" + helpers.FormatDecimalUS(q.Price),
			ChangeText:       helpers.FormatPercent(q.Change24hPercent.InexactFloat64()),
			VolumeText:       helpers.FormatVolumeUS(q.Volume),
		})
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = rows
	w.loaded = true
}

// Loaded reports whether a first result has arrived.
func (w *MarketWidget) Loaded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loaded
}

// Search filters rows by a case-insensitive substring of the symbol. An
// empty term returns every row.
func (w *MarketWidget) Search(term string) []MarketRow {
	w.mu.RLock()
	defer w.mu.RUnlock()

	term = strings.ToLower(term)
	out := make([]MarketRow, 0, len(w.rows))
	for _, r := range w.rows {
		if strings.Contains(strings.ToLower(r.Symbol), term) {
			out = append(out, r)
		}
	}
	return out
}

// Select hands symbol to the shell.
func (w *MarketWidget) Select(symbol string) {
	if w.onSelect != nil {
		w.onSelect(symbol)
	}
}
