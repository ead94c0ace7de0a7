package notify

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/metrics"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Deliver(t Toast) error {
	return m.Called(t).Error(0)
}

func TestShowDefaults(t *testing.T) {
	m := metrics.NewDashboardMetrics(prometheus.NewRegistry())
	h := NewHost(m)

	toast := h.Show("Alert deleted", "", "")
	assert.NotEmpty(t, toast.ID)
	assert.Equal(t, VariantDefault, toast.Variant)
	assert.Equal(t, DefaultDuration, toast.Duration)
	assert.Equal(t, "Alert deleted", toast.Title)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("default")))

	require.Len(t, h.Active(), 1)
}

func TestToastsExpire(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	h := NewHost(nil)
	h.now = func() time.Time { return clock }

	h.Show("first", "", VariantSuccess)
	h.Push(Toast{Title: "long", Duration: time.Minute})

	clock = clock.Add(DefaultDuration)
	active := h.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "long", active[0].Title)
}

func TestDismiss(t *testing.T) {
	h := NewHost(nil)
	a := h.Show("a", "", VariantDefault)
	h.Show("b", "", VariantDestructive)

	assert.True(t, h.Dismiss(a.ID))
	assert.False(t, h.Dismiss(a.ID))
	require.Len(t, h.Active(), 1)

	h.DismissAll()
	assert.Empty(t, h.Active())
}

func TestSinksReceiveToasts(t *testing.T) {
	ok := &MockSink{}
	ok.On("Deliver", mock.MatchedBy(func(t Toast) bool { return t.Title == "Order placed" })).Return(nil)
	failing := &MockSink{}
	failing.On("Deliver", mock.Anything).Return(errors.New("network down"))

	h := NewHost(nil, failing, ok)
	h.Show("Order placed", "BUY 0.1 BTC", VariantSuccess)

	ok.AssertExpectations(t)
	failing.AssertExpectations(t)
	assert.Len(t, h.Active(), 1, "a failing sink does not drop the toast")
}
