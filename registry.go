package breaker

import (
	"sync"
	"time"
)

// Registry is a collection of breakers keyed by name, created lazily
// with a shared base configuration. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	breakers  map[string]*Breaker
	threshold int
	timeout   time.Duration
	opts      []Option
}

// NewRegistry creates a Registry whose breakers are built with the
// given threshold, timeout, and options. Each breaker is additionally
// named after its key.
func NewRegistry(threshold int, timeout time.Duration, opts ...Option) *Registry {
	return &Registry{
		breakers:  make(map[string]*Breaker),
		threshold: threshold,
		timeout:   timeout,
		opts:      opts,
	}
}

// Get returns the breaker for name, creating it on first use.
func (r *Registry) Get(name string) *Breaker {
	r.mu.RLock()
	b, ok := r.breakers[name]
	r.mu.RUnlock()

	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check: another goroutine may have created it.
	if b, ok = r.breakers[name]; ok {
		return b
	}

	opts := make([]Option, 0, len(r.opts)+1)
	opts = append(opts, r.opts...)
	opts = append(opts, WithName(name))
	b = New(r.threshold, r.timeout, opts...)
	r.breakers[name] = b
	return b
}

// States returns a snapshot of the current state of every breaker.
func (r *Registry) States() map[string]State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make(map[string]State, len(r.breakers))
	for name, b := range r.breakers {
		states[name] = b.State()
	}
	return states
}

// Reset drops all breakers. Subsequent Get calls create fresh ones.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakers = make(map[string]*Breaker)
}
