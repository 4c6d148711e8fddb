// Package clock abstracts wall time and tickers so periodic cues are testable
package clock

import "time"

// Ticker delivers ticks on C until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock provides the current time and periodic tickers
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Real is the system clock
type Real struct{}

// New creates a system clock
func New() Real {
	return Real{}
}

// Now returns the current time with monotonic clock reading
func (Real) Now() time.Time {
	return time.Now()
}

// NewTicker wraps time.NewTicker
func (Real) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop() { r.t.Stop() }
