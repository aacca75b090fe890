package breaker

type config struct {
	name      string
	condition Condition
	clock     Clock

	onStateChange OnStateChangeFunc
	onCall        OnCallFunc
	onReject      OnRejectFunc
}

// Option configures a Breaker.
type Option func(*config)

// WithName sets the breaker name reported to hooks. Default is empty.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// If sets the condition that determines whether an error counts as a failure.
// By default, any non-nil error is a failure.
func If(cond Condition) Option {
	return func(c *config) {
		c.condition = cond
	}
}

// IfNot sets a condition where matching errors are NOT counted as failures.
// This is equivalent to If(Not(cond)).
func IfNot(cond Condition) Option {
	return If(Not(cond))
}

// Not inverts a condition.
func Not(cond Condition) Condition {
	return func(err error) bool {
		return !cond(err)
	}
}

// WithClock sets the clock for time operations. Useful for testing.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// OnStateChange sets a hook called when the circuit changes state.
func OnStateChange(fn OnStateChangeFunc) Option {
	return func(c *config) {
		c.onStateChange = fn
	}
}

// OnCall sets a hook called after each call attempt.
func OnCall(fn OnCallFunc) Option {
	return func(c *config) {
		c.onCall = fn
	}
}

// OnReject sets a hook called when a call is rejected due to open circuit.
func OnReject(fn OnRejectFunc) Option {
	return func(c *config) {
		c.onReject = fn
	}
}
