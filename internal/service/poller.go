package service

import (
	"context"
	"time"
)

// Poller bounds the run polling loop: a fixed delay between polls and a
// maximum number of attempts. The delay is a deliberate throttle on the
// remote backend, not a correctness requirement. Sleep is replaceable so
// tests can run against a virtual clock.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       func(ctx context.Context, d time.Duration) error
}

func (p Poller) sleep(ctx context.Context) error {
	fn := p.Sleep
	if fn == nil {
		fn = sleepContext
	}
	return fn(ctx, p.Interval)
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
