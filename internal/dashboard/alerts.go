package dashboard

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"trading-dashboard/internal/notify"
	"trading-dashboard/internal/types"
	"trading-dashboard/lib/translation"
)

var (
	ErrPriceRequired    = errors.New("alert price is required")
	ErrUnknownCondition = errors.New("unknown alert condition")
	ErrAlertNotFound    = errors.New("alert not found")
)

// AlertAssets are the pairs offered when creating an alert.
var AlertAssets = []string{"BTC/USD", "ETH/USD", "SOL/USD", "ADA/USD"}

// AlertBook is an in-memory list of price alerts. Alerts are never checked
// against live prices.
type AlertBook struct {
	mu       sync.RWMutex
	alerts   []types.PriceAlert
	notifier notify.Notifier
}

func NewAlertBook(n notify.Notifier) *AlertBook {
	return &AlertBook{
		notifier: n,
		alerts: []types.PriceAlert{
			{ID: "1", Asset: "BTC/USD", Condition: types.ConditionAbove, Threshold: decimal.NewFromInt(55000), Active: true},
			{ID: "2", Asset: "ETH/USD", Condition: types.ConditionBelow, Threshold: decimal.NewFromInt(2000), Active: true},
		},
	}
}

func (b *AlertBook) List() []types.PriceAlert {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]types.PriceAlert(nil), b.alerts...)
}

// Add creates an active alert. A missing price is rejected with a
// notification before anything changes.
func (b *AlertBook) Add(asset string, condition types.AlertCondition, price *decimal.Decimal) (types.PriceAlert, error) {
	if price == nil {
		b.notify(translation.Translate("Price required"), translation.Translate("Please specify a price for the alert."), notify.VariantDestructive)
		return types.PriceAlert{}, ErrPriceRequired
	}
	if condition != types.ConditionAbove && condition != types.ConditionBelow {
		return types.PriceAlert{}, errors.Wrapf(ErrUnknownCondition, "%q", condition)
	}

	alert := types.PriceAlert{
		ID:        uuid.NewString(),
		Asset:     asset,
		Condition: condition,
		Threshold: *price,
		Active:    true,
	}

	b.mu.Lock()
	b.alerts = append(b.alerts, alert)
	b.mu.Unlock()

	direction := translation.Translate("above")
	if condition == types.ConditionBelow {
		direction = translation.Translate("below")
	}
	b.notify(translation.Translate("Alert created"),
		translation.Translate("You will be notified when %s goes %s %s$.", asset, direction, price.String()),
		notify.VariantSuccess)
	return alert, nil
}

// Toggle flips an alert's active flag and returns the updated alert.
func (b *AlertBook) Toggle(id string) (types.PriceAlert, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.alerts {
		if b.alerts[i].ID == id {
			b.alerts[i].Active = !b.alerts[i].Active
			return b.alerts[i], nil
		}
	}
	return types.PriceAlert{}, errors.Wrap(ErrAlertNotFound, id)
}

func (b *AlertBook) Delete(id string) error {
	b.mu.Lock()
	found := false
	for i := range b.alerts {
		if b.alerts[i].ID == id {
			b.alerts = append(b.alerts[:i], b.alerts[i+1:]...)
			found = true
			break
		}
	}
	b.mu.Unlock()

	if !found {
		return errors.Wrap(ErrAlertNotFound, id)
	}
	b.notify(translation.Translate("Alert deleted"), translation.Translate("The price alert was deleted successfully."), notify.VariantDefault)
	return nil
}

func (b *AlertBook) notify(title, description string, variant notify.Variant) {
	if b.notifier != nil {
		b.notifier.Show(title, description, variant)
	}
}
