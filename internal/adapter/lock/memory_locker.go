package lock

import (
	"context"
	"sync"
	"time"

	"github.com/storelane/sale-engine/internal/core/domain"
	"github.com/storelane/sale-engine/internal/port"
)

// MemoryLocker is the in-process Locker. Each product id maps to a one-slot
// channel; holding the token in the channel is holding the lock. Slots are
// reference-counted so idle products do not accumulate in the map.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*slot)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, productID string, timeout time.Duration) (port.Lease, error) {
	s := l.retain(productID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return &memoryLease{locker: l, key: productID, slot: s}, nil
	case <-timer.C:
		l.unref(productID)
		return nil, domain.ErrLockTimeout
	case <-ctx.Done():
		l.unref(productID)
		return nil, ctx.Err()
	}
}

func (l *MemoryLocker) retain(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *MemoryLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[key]
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

type memoryLease struct {
	locker *MemoryLocker
	key    string
	slot   *slot
	once   sync.Once
}

func (le *memoryLease) Release() {
	le.once.Do(func() {
		<-le.slot.ch
		le.locker.unref(le.key)
	})
}
