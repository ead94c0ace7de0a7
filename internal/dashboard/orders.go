package dashboard

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"trading-dashboard/internal/notify"
	"trading-dashboard/internal/types"
	"trading-dashboard/lib/translation"
)

var (
	DefaultOrderAmount = decimal.RequireFromString("0.1")
	maxOrderAmount     = decimal.NewFromInt(1)

	ErrInvalidOrder = errors.New("invalid order")
)

type OrderInput struct {
	Asset  string           `json:"asset"`
	Side   types.OrderSide  `json:"side"`
	Type   types.OrderType  `json:"type"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Price  *decimal.Decimal `json:"price,omitempty"`
}

// OrderForm validates input and places orders through the gateway.
type OrderForm struct {
	gw       Gateway
	notifier notify.Notifier
}

func NewOrderForm(gw Gateway, n notify.Notifier) *OrderForm {
	return &OrderForm{gw: gw, notifier: n}
}

// ExchangeSymbol strips the pair separator: BTC/USD becomes BTCUSD.
func ExchangeSymbol(asset string) string {
	return strings.ReplaceAll(asset, "/", "")
}

func validate(in OrderInput) error {
	switch {
	case in.Asset == "":
		return errors.Wrap(ErrInvalidOrder, "asset is required")
	case in.Side != types.SideBuy && in.Side != types.SideSell:
		return errors.Wrapf(ErrInvalidOrder, "unknown side %q", in.Side)
	case in.Type != types.TypeMarket && in.Type != types.TypeLimit:
		return errors.Wrapf(ErrInvalidOrder, "unknown type %q", in.Type)
	case in.Amount == nil || !in.Amount.IsPositive() || in.Amount.GreaterThan(maxOrderAmount):
		return errors.Wrapf(ErrInvalidOrder, "amount %s is outside (0, 1]", in.Amount)
	case in.Price != nil && in.Price.IsNegative():
		return errors.Wrapf(ErrInvalidOrder, "negative price %s", in.Price)
	}
	return nil
}

// Submit places the order. A missing amount defaults to 0.1. Gateway failures never surface here: the gateway
// answers with a simulated order instead.
func (f *OrderForm) Submit(ctx context.Context, in OrderInput) (types.Order, error) {
	if in.Side == "" {
		in.Side = types.SideBuy
	}
	if in.Type == "" {
		in.Type = types.TypeMarket
	}
	if in.Amount == nil {
		amount := DefaultOrderAmount
		in.Amount = &amount
	}

	if err := validate(in); err != nil {
		f.notify(translation.Translate("Error"),
			translation.Translate("An error occurred while placing the order. Please try again."),
			notify.VariantDestructive)
		return types.Order{}, err
	}

	if !f.gw.Configured() {
		f.notify(translation.Translate("Demo mode"),
			translation.Translate("Using simulated data. In production, connect to a real API."),
			notify.VariantDefault)
	}

	req := types.OrderRequest{
		Symbol: ExchangeSymbol(in.Asset),
		Side:   in.Side,
		Type:   in.Type,
		Amount: *in.Amount,
	}
	if in.Type == types.TypeLimit {
		req.Price = in.Price
	}
	order := f.gw.PlaceOrder(ctx, req)

	f.notify(translation.Translate("Order placed successfully"), describeOrder(in), notify.VariantSuccess)
	return order, nil
}

func describeOrder(in OrderInput) string {
	base, quote, _ := strings.Cut(in.Asset, "/")
	at := translation.Translate("market price")
	if in.Type == types.TypeLimit && in.Price != nil {
		at = in.Price.String()
	}
	return translation.Translate("%s %s %s at %s %s",
		strings.ToUpper(string(in.Side)), in.Amount.String(), base, at, quote)
}

func (f *OrderForm) notify(title, description string, variant notify.Variant) {
	if f.notifier != nil {
		f.notifier.Show(title, description, variant)
	}
}
