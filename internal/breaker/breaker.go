package breaker

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

var ErrOpen = errors.New("circuit breaker is open")

// Breaker stops calling a failing backend for resetTimeout after threshold
// consecutive failures, then lets a single probe through.
type Breaker struct {
	name         string
	mu           sync.Mutex
	state        State
	failureCount int
	threshold    int
	resetTimeout time.Duration
	lastFailure  time.Time
	probing      bool
	now          func() time.Time
}

func New(name string, threshold int, resetTimeout time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 1
	}
	return &Breaker{
		name:         name,
		threshold:    threshold,
		resetTimeout: resetTimeout,
		state:        StateClosed,
		now:          time.Now,
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Execute runs action unless the circuit is open. While half-open only the
// probe call runs; concurrent callers get ErrOpen until it finishes.
func (b *Breaker) Execute(action func() error) error {
	b.mu.Lock()
	switch b.state {
	case StateOpen:
		if b.now().Sub(b.lastFailure) <= b.resetTimeout {
			b.mu.Unlock()
			return ErrOpen
		}
		log.Debugf("breaker %s: half-open", b.name)
		b.state = StateHalfOpen
		b.probing = true
	case StateHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return ErrOpen
		}
		b.probing = true
	}
	b.mu.Unlock()

	err := action()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false

	if err != nil {
		b.failureCount++
		b.lastFailure = b.now()
		if b.state == StateHalfOpen || b.failureCount >= b.threshold {
			log.Warnf("breaker %s: open after %d failures", b.name, b.failureCount)
			b.state = StateOpen
		}
		return err
	}

	if b.state == StateHalfOpen {
		log.Debugf("breaker %s: closed", b.name)
	}
	b.state = StateClosed
	b.failureCount = 0
	return nil
}
