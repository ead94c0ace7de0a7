package dashboard

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"trading-dashboard/internal/metrics"
)

// Poller fetches on a fixed interval and applies results in request order.
// Every poll takes a token; a result is applied only while its token is
// still the newest issued, so a slow response cannot overwrite a fresher one.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	apply    func(T)
	metrics  *metrics.DashboardMetrics

	mu     sync.Mutex
	issued uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoller[T any](name string, interval time.Duration, fetch func(ctx context.Context) (T, error), apply func(T), m *metrics.DashboardMetrics) *Poller[T] {
	return &Poller[T]{name: name, interval: interval, fetch: fetch, apply: apply, metrics: m}
}

// Start polls once right away and then on every tick until Stop or ctx is
// done. Ticks do not wait for a slow poll to finish.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.spawn(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.spawn(ctx)
			}
		}
	}()
}

func (p *Poller[T]) spawn(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Poll(ctx)
	}()
}

// Stop cancels the timer and waits for in-flight polls to return. Their
// results are dropped.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Poll runs one fetch and reports whether its result was applied.
func (p *Poller[T]) Poll(ctx context.Context) bool {
	token := p.issue()

	value, err := p.fetch(ctx)
	if err != nil {
		log.Debugf("%s poll %d failed: %v", p.name, token, err)
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.issued || ctx.Err() != nil {
		log.Debugf("%s poll %d is stale, latest is %d", p.name, token, p.issued)
		if p.metrics != nil {
			p.metrics.PollsDiscarded.WithLabelValues(p.name).Inc()
		}
		return false
	}

	p.apply(value)
	if p.metrics != nil {
		p.metrics.PollsApplied.WithLabelValues(p.name).Inc()
	}
	return true
}

func (p *Poller[T]) issue() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}
