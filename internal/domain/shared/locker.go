package shared

import (
	"context"
	"errors"
	"time"
)

// ErrLockTimeout is returned when a key lock could not be acquired in time
var ErrLockTimeout = errors.New("shared: timed out waiting for key lock")

// KeyLocker serializes work on the same key, across goroutines or instances
type KeyLocker interface {
	// Lock blocks until the key is held or the wait expires. The returned
	// function releases the lock and is safe to call more than once.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// LockConfig holds configuration for key locks
type LockConfig struct {
	// TTL bounds how long a crashed holder can keep a key locked
	TTL time.Duration
	// Wait is the longest a caller blocks before ErrLockTimeout
	Wait time.Duration
	// RetryInterval is the polling interval of distributed implementations
	RetryInterval time.Duration
}

// DefaultLockConfig returns the default lock configuration
func DefaultLockConfig() LockConfig {
	return LockConfig{
		TTL:           30 * time.Second,
		Wait:          5 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}
