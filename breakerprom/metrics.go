// Package breakerprom exposes circuit breaker activity as Prometheus
// metrics, wired through the breaker's observability hooks.
package breakerprom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	breaker "github.com/mahmudsudo/circuit-breaker"
)

// Metrics holds the Prometheus collectors for a set of breakers. One
// Metrics instance serves any number of breakers, partitioned by the
// breaker name label.
type Metrics struct {
	state       *prometheus.GaugeVec
	transitions *prometheus.CounterVec
	opens       *prometheus.CounterVec
	rejects     *prometheus.CounterVec
	calls       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "breaker_state",
			Help: "Current breaker state: 0=closed, 1=open, 2=half-open",
		}, []string{"name"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breaker_transition_total",
			Help: "Count of breaker state transitions",
		}, []string{"name", "from", "to"}),
		opens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breaker_open_total",
			Help: "Number of times a breaker transitioned into open state",
		}, []string{"name"}),
		rejects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breaker_reject_total",
			Help: "Number of calls rejected while the breaker was open",
		}, []string{"name"}),
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breaker_call_total",
			Help: "Number of calls run through the breaker, by result",
		}, []string{"name", "result"}),
	}
}

// Options returns breaker options wiring the hooks to the metrics:
//
//	m := breakerprom.New(prometheus.DefaultRegisterer)
//	cb := breaker.New(3, 30*time.Second,
//	    append(m.Options(), breaker.WithName("payments"))...,
//	)
func (m *Metrics) Options() []breaker.Option {
	return []breaker.Option{
		breaker.OnStateChange(m.StateChange),
		breaker.OnReject(m.Reject),
		breaker.OnCall(m.Call),
	}
}

// StateChange records a transition. It is a breaker.OnStateChangeFunc.
func (m *Metrics) StateChange(name string, from, to breaker.State) {
	m.state.WithLabelValues(name).Set(float64(to))
	m.transitions.WithLabelValues(name, from.String(), to.String()).Inc()
	if to == breaker.Open {
		m.opens.WithLabelValues(name).Inc()
	}
}

// Reject records a rejected call. It is a breaker.OnRejectFunc.
func (m *Metrics) Reject(name string) {
	m.rejects.WithLabelValues(name).Inc()
}

// Call records a completed call attempt. It is a breaker.OnCallFunc.
func (m *Metrics) Call(name string, _ breaker.State, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.calls.WithLabelValues(name, result).Inc()
}
