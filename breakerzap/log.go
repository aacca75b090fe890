// Package breakerzap logs circuit breaker activity through a
// zap.Logger, wired through the breaker's observability hooks.
package breakerzap

import (
	"go.uber.org/zap"

	breaker "github.com/mahmudsudo/circuit-breaker"
)

// Options returns breaker options that log circuit events to log:
// state changes at Info, rejected calls at Warn, and failed calls at
// Debug.
//
//	cb := breaker.New(3, 30*time.Second,
//	    append(breakerzap.Options(log), breaker.WithName("payments"))...,
//	)
func Options(log *zap.Logger) []breaker.Option {
	return []breaker.Option{
		breaker.OnStateChange(func(name string, from, to breaker.State) {
			log.Info("circuit state change",
				zap.String("circuit", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		}),
		breaker.OnReject(func(name string) {
			log.Warn("circuit rejected call",
				zap.String("circuit", name),
			)
		}),
		breaker.OnCall(func(name string, state breaker.State, err error) {
			if err == nil {
				return
			}
			log.Debug("circuit call failed",
				zap.String("circuit", name),
				zap.Stringer("state", state),
				zap.Error(err),
			)
		}),
	}
}
