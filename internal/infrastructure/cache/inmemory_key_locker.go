package cache

import (
	"context"
	"sync"
	"time"

	"github.com/salehub/backend/internal/domain/shared"
)

// lockSlot is a one-token semaphore shared by every waiter of a key
type lockSlot struct {
	token   chan struct{}
	waiters int
}

// InMemoryKeyLocker implements KeyLocker for a single instance
type InMemoryKeyLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
	wait  time.Duration
}

// NewInMemoryKeyLocker creates an in-memory key locker. A zero wait blocks
// until the context is done.
func NewInMemoryKeyLocker(wait time.Duration) *InMemoryKeyLocker {
	return &InMemoryKeyLocker{
		slots: make(map[string]*lockSlot),
		wait:  wait,
	}
}

// Lock acquires the key
func (l *InMemoryKeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	slot := l.acquireSlot(key)

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case slot.token <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(key, slot)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, shared.ErrLockTimeout
		}
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.token
			l.releaseSlot(key, slot)
		})
	}, nil
}

func (l *InMemoryKeyLocker) acquireSlot(key string) *lockSlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{token: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.waiters++
	return slot
}

func (l *InMemoryKeyLocker) releaseSlot(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot.waiters--
	if slot.waiters == 0 {
		delete(l.slots, key)
	}
}

// size returns the number of keys currently tracked
func (l *InMemoryKeyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// Ensure InMemoryKeyLocker implements KeyLocker
var _ shared.KeyLocker = (*InMemoryKeyLocker)(nil)
