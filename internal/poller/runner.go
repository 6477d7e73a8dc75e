// internal/poller/runner.go
package poller

import (
	"context"
	"time"

	"github.com/tamzrod/vrf-gateway/internal/status"
)

// Run polls on every tick until ctx is done. Each published snapshot
// is sent on out when out is not nil. A cycle that already started
// runs to completion; ticks missed meanwhile are dropped, so cycles
// never overlap.
func (c *Coordinator) Run(ctx context.Context, out chan<- status.Snapshot) {
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := c.PollOnce()
			if err != nil {
				c.log.Warn().Err(err).Msg("cycle skipped")
				continue
			}
			if out == nil {
				continue
			}
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}
}

// SetupLoop calls Setup until it succeeds or ctx is done, waiting
// retry between attempts.
func (c *Coordinator) SetupLoop(ctx context.Context, retry time.Duration) error {
	for {
		err := c.Setup()
		if err == nil {
			return nil
		}
		c.log.Warn().Err(err).Dur("retry_in", retry).Msg("setup failed")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}
