package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxInFlight is the maximum number of concurrent remote calls.
	// If 0, unlimited.
	MaxInFlight int64

	// IOLimitBytesPerSec is the maximum payload throughput for reads and appends.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages limits shared by all operations of one file store.
type Controller struct {
	// Concurrency
	callSem  *semaphore.Weighted // nil if unlimited
	inFlight atomic.Int64

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
// It returns nil when no limit is configured; a nil Controller is valid.
func NewController(cfg Config) *Controller {
	if cfg.MaxInFlight <= 0 && cfg.IOLimitBytesPerSec <= 0 {
		return nil
	}

	c := &Controller{}

	if cfg.MaxInFlight > 0 {
		c.callSem = semaphore.NewWeighted(cfg.MaxInFlight)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Acquire reserves a call slot. Blocks if all slots are busy.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.callSem != nil {
		if err := c.callSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.inFlight.Add(1)
	return nil
}

// Release releases a call slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	if c.callSem != nil {
		c.callSem.Release(1)
	}
}

// InFlight returns the number of calls currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil || bytes <= 0 {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}

// ioBurst is the largest single token request the limiter accepts.
func (c *Controller) ioBurst() int {
	if c == nil || c.ioLimiter == nil {
		return 0
	}
	return c.ioLimiter.Burst()
}
