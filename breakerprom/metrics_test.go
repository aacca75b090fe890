package breakerprom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	breaker "github.com/mahmudsudo/circuit-breaker"
)

var errTest = errors.New("test error")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newBreaker(t *testing.T, clock *fakeClock) (*breaker.Breaker, *Metrics) {
	t.Helper()
	m := New(prometheus.NewRegistry())
	opts := append(m.Options(),
		breaker.WithName("api"),
		breaker.WithClock(clock),
	)
	return breaker.New(1, 10*time.Second, opts...), m
}

func TestMetrics_StateGaugeTracksTransitions(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb, m := newBreaker(t, clock)

	require.ErrorIs(t, cb.Do(context.Background(), func(ctx context.Context) error {
		return errTest
	}), errTest)

	require.Equal(t, float64(breaker.Open), testutil.ToFloat64(m.state.WithLabelValues("api")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.opens.WithLabelValues("api")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("api", "closed", "open")))

	clock.now = clock.now.Add(11 * time.Second)
	require.NoError(t, cb.Do(context.Background(), func(ctx context.Context) error {
		return nil
	}))

	require.Equal(t, float64(breaker.Closed), testutil.ToFloat64(m.state.WithLabelValues("api")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("api", "open", "half-open")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("api", "half-open", "closed")))
}

func TestMetrics_CountsRejects(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb, m := newBreaker(t, clock)

	require.ErrorIs(t, cb.Do(context.Background(), func(ctx context.Context) error {
		return errTest
	}), errTest)

	for n := 0; n < 3; n++ {
		require.True(t, breaker.IsOpen(cb.Do(context.Background(), func(ctx context.Context) error {
			return nil
		})))
	}

	require.Equal(t, 3.0, testutil.ToFloat64(m.rejects.WithLabelValues("api")))
}

func TestMetrics_CountsCallsByResult(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := New(prometheus.NewRegistry())
	opts := append(m.Options(),
		breaker.WithName("api"),
		breaker.WithClock(clock),
	)
	cb := breaker.New(5, 10*time.Second, opts...)

	require.NoError(t, cb.Do(context.Background(), func(ctx context.Context) error {
		return nil
	}))
	require.NoError(t, cb.Do(context.Background(), func(ctx context.Context) error {
		return nil
	}))
	require.ErrorIs(t, cb.Do(context.Background(), func(ctx context.Context) error {
		return errTest
	}), errTest)

	require.Equal(t, 2.0, testutil.ToFloat64(m.calls.WithLabelValues("api", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("api", "failure")))
}

func TestMetrics_SharedAcrossRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	reg := breaker.NewRegistry(1, 10*time.Second, m.Options()...)

	reg.Get("users").HandleFailure()
	reg.Get("orders").HandleFailure()

	require.Equal(t, 1.0, testutil.ToFloat64(m.opens.WithLabelValues("users")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.opens.WithLabelValues("orders")))
}
