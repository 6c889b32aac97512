package port

import (
	"context"
	"time"
)

// Lease is exclusive access to one product's stock. Release is safe to call
// more than once; exactly one call takes effect.
type Lease interface {
	Release()
}

// Locker serializes stock mutations per product. Requests for different
// products proceed in parallel; requests for the same product queue behind
// the lease holder.
type Locker interface {
	// Acquire blocks until the caller holds the product's lock, the timeout
	// elapses (domain.ErrLockTimeout) or ctx is cancelled.
	Acquire(ctx context.Context, productID string, timeout time.Duration) (Lease, error)
}
