package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

type OrderType string

const (
	TypeMarket OrderType = "market"
	TypeLimit  OrderType = "limit"
)

type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusFilled    OrderStatus = "filled"
	StatusCancelled OrderStatus = "cancelled"
)

type AlertCondition string

const (
	ConditionAbove AlertCondition = "above"
	ConditionBelow AlertCondition = "below"
)

type ViewMode string

const (
	View2D ViewMode = "2d"
	View3D ViewMode = "3d"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// AssetQuote is one row of the market table.
type AssetQuote struct {
	Symbol           string          `json:"symbol"`
	Price            decimal.Decimal `json:"price"`
	Change24hPercent decimal.Decimal `json:"change_24h"`
	Volume           decimal.Decimal `json:"volume"`
}

// Candle is one OHLCV sample. Index is strictly increasing within a series.
type Candle struct {
	Index  int     `json:"index"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Rising reports whether the candle closed above its open.
func (c Candle) Rising() bool {
	return c.Close > c.Open
}

type PortfolioBalance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

type Portfolio struct {
	Assets []PortfolioBalance `json:"assets"`
}

type PriceAlert struct {
	ID        string          `json:"id"`
	Asset     string          `json:"asset"`
	Condition AlertCondition  `json:"condition"`
	Threshold decimal.Decimal `json:"price"`
	Active    bool            `json:"active"`
}

type Order struct {
	ID        string           `json:"id"`
	Symbol    string           `json:"symbol"`
	Side      OrderSide        `json:"side"`
	Type      OrderType        `json:"type"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Amount    decimal.Decimal  `json:"amount"`
	Status    OrderStatus      `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

type OrderRequest struct {
	Symbol string
	Side   OrderSide
	Type   OrderType
	Amount decimal.Decimal
	Price  *decimal.Decimal
}

// PerformancePoint is one daily sample of the portfolio value series.
type PerformancePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
