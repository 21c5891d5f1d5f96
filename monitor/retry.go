package monitor

import (
	"context"
	"time"
)

// RetryPolicy decides how long the session pauses between failed monitoring
// cycles. The reference policy is an unbounded fixed interval; substituting
// jittered or exponential variants does not change the session contract.
type RetryPolicy interface {
	// Wait blocks until the next cycle may start. It returns false when ctx
	// ends, in which case the loop gives up instead of retrying.
	Wait(ctx context.Context) bool
}

// FixedBackoff retries forever with a constant pause between cycles.
type FixedBackoff struct {
	Interval time.Duration
}

func (b FixedBackoff) Wait(ctx context.Context) bool {
	t := time.NewTimer(b.Interval)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
