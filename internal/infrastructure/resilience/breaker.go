package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the circuit rejects a request.
var ErrOpen = errors.New("circuit breaker open")

// State is the breaker state.
type State int

const (
	Closed State = iota
	HalfOpen
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case HalfOpen:
		return "half-open"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// Settings tunes the breaker.
type Settings struct {
	// FailureThreshold is the consecutive failure count that opens the
	// circuit. Defaults to 5.
	FailureThreshold int
	// Cooldown is how long the circuit stays open before admitting a
	// trial request. Defaults to 30s.
	Cooldown time.Duration
	// TrialSuccesses is how many half-open successes close the circuit.
	// Defaults to 1.
	TrialSuccesses int
}

// Breaker implements a minimal consecutive-failure circuit breaker.
type Breaker struct {
	name     string
	settings Settings

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
}

// New creates a breaker with defaulted settings.
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.TrialSuccesses <= 0 {
		settings.TrialSuccesses = 1
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the breaker's name.
func (b *Breaker) Name() string { return b.name }

// State returns the current state, accounting for cooldown expiry.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Allow reports whether a request may proceed. Callers must follow up with
// Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current() == Open {
		return ErrOpen
	}
	return nil
}

// Record reports a request outcome and drives state transitions.
func (b *Breaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.current()
	if success {
		b.failures = 0
		if state == HalfOpen {
			b.successes++
			if b.successes >= b.settings.TrialSuccesses {
				b.state = Closed
				b.successes = 0
			}
		}
		return
	}

	b.successes = 0
	switch state {
	case Closed:
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			b.trip()
		}
	case HalfOpen:
		b.trip()
	}
}

// current applies cooldown expiry before reporting the state.
func (b *Breaker) current() State {
	if b.state == Open && time.Since(b.openedAt) >= b.settings.Cooldown {
		b.state = HalfOpen
		b.successes = 0
	}
	return b.state
}

func (b *Breaker) trip() {
	b.state = Open
	b.openedAt = time.Now()
	b.failures = 0
}
