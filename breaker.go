package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// Closed is the normal operating state. Requests flow through.
	Closed State = iota

	// Open is the tripped state. Requests are rejected immediately.
	Open

	// HalfOpen is the recovery testing state. A probe request is allowed.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Func is the function signature for protected operations.
type Func func(ctx context.Context) error

// Condition determines whether an error should count as a failure.
type Condition func(error) bool

// OnStateChangeFunc is called when the circuit changes state.
type OnStateChangeFunc func(name string, from, to State)

// OnCallFunc is called after each call attempt.
type OnCallFunc func(name string, state State, err error)

// OnRejectFunc is called when a call is rejected due to open circuit.
type OnRejectFunc func(name string)

// ErrOpen is returned when the circuit is open and rejecting requests.
var ErrOpen = errors.New("circuit open")

// IsOpen reports whether err is because the circuit is open.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}

// Breaker is a circuit breaker. Safe for concurrent use.
//
// The circuit trips open after a configured number of consecutive
// failures. While open, calls are rejected with ErrOpen until the reset
// timeout has elapsed since the last recorded failure; the next call
// then transitions the circuit to half-open and runs as a probe. A
// successful probe closes the circuit, a failed probe reopens it and
// restarts the timeout.
type Breaker struct {
	name      string
	threshold int
	timeout   time.Duration
	cfg       config

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	onOpen      func()
	onClose     func()
	onHalfOpen  func()
}

// New creates a Breaker that opens after threshold consecutive failures
// and allows a probe once timeout has elapsed since the last failure.
//
// A threshold less than 1 is treated as 1: the circuit opens on the
// first recorded failure.
func New(threshold int, timeout time.Duration, opts ...Option) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	cfg := config{
		condition: defaultCondition,
		clock:     realClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Breaker{
		name:      cfg.name,
		threshold: threshold,
		timeout:   timeout,
		cfg:       cfg,
		state:     Closed,
	}
}

// Do executes fn with circuit breaker protection.
//
// If the circuit is open and the reset timeout has not elapsed, fn is
// not invoked and Do returns ErrOpen. Otherwise fn runs outside the
// breaker's lock and its outcome is recorded against the state machine;
// fn's error is returned verbatim, so callers can distinguish a
// rejected call (IsOpen) from a failed one.
//
// Admission and recording are each atomic, but because fn runs
// unlocked, concurrent callers that both observe the half-open state
// each run as a probe. See the package documentation.
func (b *Breaker) Do(ctx context.Context, fn Func) error {
	state, pending, allowed := b.admit()
	invoke(pending)
	if !allowed {
		if b.cfg.onReject != nil {
			b.cfg.onReject(b.name)
		}
		return ErrOpen
	}

	fnErr := fn(ctx)

	b.mu.Lock()
	if b.cfg.condition(fnErr) {
		pending = b.recordFailure()
	} else {
		pending = b.recordSuccess()
	}
	b.mu.Unlock()
	invoke(pending)

	if b.cfg.onCall != nil {
		b.cfg.onCall(b.name, state, fnErr)
	}

	return fnErr
}

// Allow reports whether a call may proceed, performing the open to
// half-open transition when the reset timeout has elapsed. Callers that
// drive an external call site use Allow together with HandleFailure and
// HandleSuccess instead of Do.
func (b *Breaker) Allow() bool {
	_, pending, allowed := b.admit()
	invoke(pending)
	if !allowed && b.cfg.onReject != nil {
		b.cfg.onReject(b.name)
	}
	return allowed
}

// HandleFailure records a failure against the breaker, applying the
// same transition rules as Do: it increments the consecutive failure
// count while closed, trips the circuit at the threshold, and reopens
// it from half-open. Every recorded failure restarts the reset timeout.
func (b *Breaker) HandleFailure() {
	b.mu.Lock()
	pending := b.recordFailure()
	b.mu.Unlock()
	invoke(pending)
}

// HandleSuccess records a success against the breaker: it clears the
// consecutive failure count and closes the circuit from half-open.
func (b *Breaker) HandleSuccess() {
	b.mu.Lock()
	pending := b.recordSuccess()
	b.mu.Unlock()
	invoke(pending)
}

// State returns the current state. It performs no transition: a circuit
// whose reset timeout has elapsed still reports Open until the next Do
// or Allow evaluates it.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset manually resets the circuit to closed state.
func (b *Breaker) Reset() {
	b.mu.Lock()
	b.failures = 0
	pending := b.transition(Closed)
	b.mu.Unlock()
	invoke(pending)
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.name
}

// Failures returns the current consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// SetOnOpen sets the callback invoked when the circuit opens, replacing
// any previous one. A nil fn clears it. The callback runs once per
// closed-to-open or half-open-to-open edge, after the breaker's lock is
// released, so it may safely call back into the breaker.
func (b *Breaker) SetOnOpen(fn func()) {
	b.mu.Lock()
	b.onOpen = fn
	b.mu.Unlock()
}

// SetOnClose sets the callback invoked when the circuit closes,
// replacing any previous one. A nil fn clears it.
func (b *Breaker) SetOnClose(fn func()) {
	b.mu.Lock()
	b.onClose = fn
	b.mu.Unlock()
}

// SetOnHalfOpen sets the callback invoked when the circuit transitions
// to half-open, replacing any previous one. A nil fn clears it.
func (b *Breaker) SetOnHalfOpen(fn func()) {
	b.mu.Lock()
	b.onHalfOpen = fn
	b.mu.Unlock()
}

// admit decides whether a call may proceed, performing the time-based
// open to half-open transition. It returns the state the call observed
// and any callbacks owed once the lock is released.
func (b *Breaker) admit() (State, []func(), bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		if b.cfg.clock.Now().Sub(b.lastFailure) < b.timeout {
			return b.state, nil, false
		}
		pending := b.transition(HalfOpen)
		return b.state, pending, true
	}
	return b.state, nil, true
}

func (b *Breaker) recordFailure() []func() {
	b.failures++
	b.lastFailure = b.cfg.clock.Now()

	switch b.state {
	case Closed:
		if b.failures >= b.threshold {
			return b.transition(Open)
		}
	case HalfOpen:
		return b.transition(Open)
	}
	return nil
}

func (b *Breaker) recordSuccess() []func() {
	b.failures = 0
	if b.state == HalfOpen {
		return b.transition(Closed)
	}
	return nil
}

// transition moves the state machine to the given state and returns the
// callbacks owed for the edge. A transition to the current state is a
// no-op and owes nothing. Must be called with b.mu held.
func (b *Breaker) transition(to State) []func() {
	if b.state == to {
		return nil
	}
	from := b.state
	b.state = to

	if to != Open {
		b.failures = 0
	}

	var pending []func()
	var edge func()
	switch to {
	case Open:
		edge = b.onOpen
	case Closed:
		edge = b.onClose
	case HalfOpen:
		edge = b.onHalfOpen
	}
	if edge != nil {
		pending = append(pending, edge)
	}
	if b.cfg.onStateChange != nil {
		fn := b.cfg.onStateChange
		pending = append(pending, func() { fn(b.name, from, to) })
	}
	return pending
}

func invoke(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

func defaultCondition(err error) bool {
	return err != nil
}
