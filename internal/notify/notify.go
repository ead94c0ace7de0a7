// Package notify is the toast host: short-lived notifications shown to the
// user and optionally forwarded to external sinks.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"trading-dashboard/internal/metrics"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
	VariantSuccess     Variant = "success"
)

const DefaultDuration = 5 * time.Second

type Toast struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Variant     Variant       `json:"variant"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (t Toast) expired(now time.Time) bool {
	return !now.Before(t.CreatedAt.Add(t.Duration))
}

// Sink receives every toast after it is shown.
type Sink interface {
	Deliver(t Toast) error
}

// Notifier is what widgets use to raise toasts.
type Notifier interface {
	Show(title, description string, variant Variant) Toast
}

type Host struct {
	mu      sync.Mutex
	toasts  []Toast
	sinks   []Sink
	metrics *metrics.DashboardMetrics
	now     func() time.Time
}

func NewHost(m *metrics.DashboardMetrics, sinks ...Sink) *Host {
	return &Host{metrics: m, sinks: sinks, now: time.Now}
}

// Show raises a toast with the default duration.
func (h *Host) Show(title, description string, variant Variant) Toast {
	return h.Push(Toast{Title: title, Description: description, Variant: variant})
}

// Push raises t and fills in its id and defaults.
func (h *Host) Push(t Toast) Toast {
	t.ID = uuid.NewString()
	if t.Variant == "" {
		t.Variant = VariantDefault
	}
	if t.Duration <= 0 {
		t.Duration = DefaultDuration
	}

	h.mu.Lock()
	t.CreatedAt = h.now()
	h.toasts = append(h.toasts, t)
	sinks := append([]Sink(nil), h.sinks...)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.Notifications.WithLabelValues(string(t.Variant)).Inc()
	}
	log.Debugf("toast %s [%s] %s", t.ID, t.Variant, t.Title)

	for _, s := range sinks {
		if err := s.Deliver(t); err != nil {
			log.Errorf("Failed to deliver notification %s: %v", t.ID, err)
		}
	}
	return t
}

// Active returns the toasts that have not expired, oldest first, and drops
// the rest.
func (h *Host) Active() []Toast {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	kept := h.toasts[:0]
	for _, t := range h.toasts {
		if !t.expired(now) {
			kept = append(kept, t)
		}
	}
	h.toasts = kept
	return append([]Toast(nil), kept...)
}

// Dismiss removes one toast. It reports whether the id was present.
func (h *Host) Dismiss(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, t := range h.toasts {
		if t.ID == id {
			h.toasts = append(h.toasts[:i], h.toasts[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Host) DismissAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toasts = nil
}
