package device

import (
	"context"
	"time"
)

// ClockTicker is a Ticker backed by a wall-clock ticker.
type ClockTicker struct {
	t *time.Ticker
}

func NewClockTicker(period time.Duration) *ClockTicker {
	return &ClockTicker{t: time.NewTicker(period)}
}

func (c *ClockTicker) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.t.C:
		return nil
	}
}

func (c *ClockTicker) Stop() {
	c.t.Stop()
}
