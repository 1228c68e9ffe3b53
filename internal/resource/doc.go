// Package resource implements the limits a file store applies to its remote calls.
//
// The Controller governs two resources:
//
//   - Concurrency: bound the number of in-flight calls to the remote filesystem
//   - IO: rate-limit payload bytes moved by reads and appends
//
// # Architecture
//
//	┌───────────────────────────────────────────────┐
//	│                  Controller                   │
//	├──────────────────────┬────────────────────────┤
//	│  In-flight calls     │  IO Rate Limiter       │
//	│  (weighted sem)      │  (token bucket)        │
//	├──────────────────────┼────────────────────────┤
//	│  Acquire             │  AcquireIO             │
//	│  Release             │  RateLimitedWriter     │
//	│  InFlight            │  RateLimitedReader     │
//	└──────────────────────┴────────────────────────┘
//
// # In-flight Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxInFlight: 16,
//	})
//
//	if err := rc.Acquire(ctx); err != nil {
//	    return err
//	}
//	defer rc.Release()
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 10 * 1024 * 1024, // 10MB/s
//	})
//
//	writer := resource.NewRateLimitedWriter(ctx, w, rc)
//	reader := resource.NewRateLimitedReader(ctx, r, rc)
//
// Wrappers split large buffers into chunks no larger than the limiter
// burst, so a single Write never waits for more tokens than the bucket holds.
//
// # Nil Safety
//
// NewController returns nil when no limit is set. All methods handle a nil
// Controller gracefully - they become no-ops.
package resource
