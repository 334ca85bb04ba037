package sheets

import (
	"sync"
	"time"
)

// breaker is a consecutive-failure circuit breaker. Once failures reach
// the threshold, requests fail fast until the cooldown elapses; the
// first request after the cooldown is allowed through as a probe. Any
// success resets the counter. A request in flight when the breaker
// opens is not interrupted.
type breaker struct {
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time

	mu          sync.Mutex
	failures    int
	lastFailure time.Time
}

func newBreaker(maxFailures int, cooldown time.Duration) *breaker {
	return &breaker{maxFailures: maxFailures, cooldown: cooldown, now: time.Now}
}

// allow reports whether a request may be made. Crossing the cooldown
// boundary resets the failure count (half-open).
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.maxFailures {
		return true
	}
	if b.now().Sub(b.lastFailure) > b.cooldown {
		b.failures = 0
		return true
	}
	return false
}

func (b *breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = b.now()
}

func (b *breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.lastFailure = time.Time{}
}
