package breaker

import "time"

// Clock abstracts the time source used for the reset timeout.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
