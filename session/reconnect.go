package session

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffPolicy decides how long to wait before the next reconnect
// attempt. It is injectable so tests can supply a deterministic
// policy instead of waiting on real time.
type BackoffPolicy interface {
	// NextBackOff returns the delay before the next attempt.
	NextBackOff() time.Duration
	// Reset is called after a successful authentication so the next
	// outage starts backing off from the initial interval again.
	Reset()
}

// exponentialBackoff adapts cenkalti/backoff/v4's ExponentialBackOff
// to BackoffPolicy. The first attempt after NewBackoffPolicy honors
// initialInterval exactly, matching the distilled spec's documented
// flat default; only repeated failures back off further, capped at
// maxInterval.
type exponentialBackoff struct {
	b *backoff.ExponentialBackOff
}

// NewBackoffPolicy returns the default reconnect policy: exponential
// backoff seeded at initialInterval, capped at maxInterval, with no
// overall elapsed-time limit (a session keeps trying to reconnect
// until the caller cancels its context).
func NewBackoffPolicy(initialInterval, maxInterval time.Duration) BackoffPolicy {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialInterval
	b.MaxInterval = maxInterval
	b.MaxElapsedTime = 0
	b.RandomizationFactor = 0
	b.Reset()
	return &exponentialBackoff{b: b}
}

func (e *exponentialBackoff) NextBackOff() time.Duration {
	d := e.b.NextBackOff()
	if d == backoff.Stop {
		return e.b.MaxInterval
	}
	return d
}

func (e *exponentialBackoff) Reset() {
	e.b.Reset()
}

// FixedBackoff always waits the same delay; useful in tests.
type FixedBackoff struct {
	Delay time.Duration
}

func (f FixedBackoff) NextBackOff() time.Duration { return f.Delay }
func (f FixedBackoff) Reset()                     {}
