// Package breaker implements the circuit breaker pattern for guarding
// calls to a failing dependency.
//
// breaker protects services from cascading failures by:
//
//   - Tracking Failures: Consecutive errors trip the circuit open
//   - Fast Rejection: Open circuits reject calls immediately without load
//   - Automatic Recovery: After a reset timeout, a probe tests the dependency
//   - Transition Callbacks: OnOpen, OnClose, OnHalfOpen fire on each edge
//
// # Quick Start
//
// Create a breaker that opens after 3 consecutive failures and probes
// again 30 seconds after the last failure:
//
//	cb := breaker.New(3, 30*time.Second)
//
//	err := cb.Do(ctx, func(ctx context.Context) error {
//	    return client.Charge(ctx, amount)
//	})
//	if breaker.IsOpen(err) {
//	    return handleFallback()
//	}
//
// For functions that return values, use the generic Run helper:
//
//	user, err := breaker.Run(ctx, cb, func(ctx context.Context) (*User, error) {
//	    return client.GetUser(ctx, id)
//	})
//
// # Circuit States
//
// The circuit breaker has three states:
//
//	Closed (normal):
//	    - Requests flow through to the protected function
//	    - Consecutive failures are counted; any success resets the count
//	    - When failures reach the threshold, the circuit opens
//
//	Open (tripped):
//	    - Requests are rejected immediately with ErrOpen
//	    - Once the reset timeout has elapsed since the last failure,
//	      the next call transitions the circuit to half-open
//
//	HalfOpen (testing):
//	    - The call runs as a probe
//	    - Success closes the circuit
//	    - Failure reopens it and restarts the reset timeout
//
// State returns the stored state without evaluating the timeout: a
// circuit whose reset timeout has elapsed still reports Open until the
// next Do or Allow call. Poll with Allow, not State, if the transition
// matters.
//
// # Transition Callbacks
//
// Register a callback per edge; each fires exactly once per transition,
// never for repeated failures while already open:
//
//	cb.SetOnOpen(func() { alerts.Page("payments circuit opened") })
//	cb.SetOnClose(func() { alerts.Resolve("payments circuit closed") })
//	cb.SetOnHalfOpen(func() { log.Println("probing payments") })
//
// Callbacks run synchronously on the goroutine that triggers the
// transition, after the breaker's lock is released, so a callback may
// call back into the same breaker without deadlocking. Setters replace
// any previous callback; replacing one while a transition is in flight
// delivers either the old or the new function.
//
// # Driving the Breaker Manually
//
// Do wraps admission and outcome recording in one call. Callers that
// own the call site can drive the two halves directly:
//
//	if !cb.Allow() {
//	    return fallback()
//	}
//	resp, err := client.Call(ctx, req)
//	if err != nil {
//	    cb.HandleFailure()
//	    return err
//	}
//	cb.HandleSuccess()
//
// # Failure Conditions
//
// By default, any non-nil error counts as a failure. Customize this with If:
//
//	cb := breaker.New(3, 30*time.Second,
//	    breaker.If(func(err error) bool {
//	        return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
//	    }),
//	)
//
// Use IfNot to exclude certain errors:
//
//	// Don't count 404s as failures
//	cb := breaker.New(3, 30*time.Second,
//	    breaker.IfNot(func(err error) bool {
//	        return errors.Is(err, ErrNotFound)
//	    }),
//	)
//
// Conditions apply to Do and Run outcomes only; HandleFailure is always
// a failure.
//
// # Observability Hooks
//
// Hooks observe the breaker without coupling it to a logger or metrics
// system:
//
//	cb := breaker.New(3, 30*time.Second,
//	    breaker.WithName("payment-service"),
//	    breaker.OnStateChange(func(name string, from, to breaker.State) {
//	        log.Printf("circuit %s: %s -> %s", name, from, to)
//	    }),
//	    breaker.OnReject(func(name string) {
//	        metrics.Increment("circuit.rejected", "circuit:"+name)
//	    }),
//	)
//
// The breakerzap and breakerprom subpackages provide ready-made hook
// sets for zap logging and Prometheus metrics.
//
// # Multiple Breakers
//
// Registry manages one breaker per key (per host, per endpoint) with a
// shared configuration:
//
//	reg := breaker.NewRegistry(3, 30*time.Second)
//	cb := reg.Get(backend.URL)
//
// # Concurrency
//
// All methods are safe for concurrent use. The admission decision and
// the outcome recording are each atomic, but the protected function
// runs outside the breaker's lock so concurrent callers proceed in
// parallel. A consequence: two callers that both find the circuit
// half-open both run as probes. If at most one in-flight probe matters,
// serialize at the call site around Allow.
//
// # Testing
//
// Inject a fake clock to control the reset timeout in tests:
//
//	type fakeClock struct {
//	    now time.Time
//	}
//
//	func (c *fakeClock) Now() time.Time { return c.now }
//	func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
//
//	clock := &fakeClock{now: time.Now()}
//	cb := breaker.New(1, 30*time.Second, breaker.WithClock(clock))
package breaker
