// Package lock serialises work per key, so two submissions for the same match never
// interleave while different matches proceed in parallel.
package lock

import (
	"context"
	"sync"
	"time"
)

type keyMutex struct {
	mu       sync.Mutex
	refCount int
}

// KeyLock is a set of mutexes created on first use, one per key.
type KeyLock struct {
	locks sync.Map // map[uint]*keyMutex
	pool  sync.Pool
}

// NewKeyLock creates an empty KeyLock.
func NewKeyLock() *KeyLock {
	return &KeyLock{
		pool: sync.Pool{
			New: func() any {
				return &keyMutex{}
			},
		},
	}
}

func (kl *KeyLock) getLock(key uint) *keyMutex {
	if v, ok := kl.locks.Load(key); ok {
		return v.(*keyMutex)
	}

	fresh := kl.pool.Get().(*keyMutex)
	fresh.refCount = 0

	actual, loaded := kl.locks.LoadOrStore(key, fresh)
	if loaded {
		kl.pool.Put(fresh)
	}
	return actual.(*keyMutex)
}

// Lock blocks until the key's lock is held.
func (kl *KeyLock) Lock(key uint) {
	l := kl.getLock(key)
	l.mu.Lock()
	l.refCount++
}

// Unlock releases the key's lock.
func (kl *KeyLock) Unlock(key uint) {
	if v, ok := kl.locks.Load(key); ok {
		l := v.(*keyMutex)
		l.refCount--
		l.mu.Unlock()
	}
}

// TryLock acquires the key's lock only if it is free.
func (kl *KeyLock) TryLock(key uint) bool {
	l := kl.getLock(key)
	if l.mu.TryLock() {
		l.refCount++
		return true
	}
	return false
}

// LockWithTimeout waits at most timeout for the key's lock. It reports whether the lock
// was acquired.
func (kl *KeyLock) LockWithTimeout(ctx context.Context, key uint, timeout time.Duration) bool {
	l := kl.getLock(key)

	done := make(chan struct{})
	go func() {
		l.mu.Lock()
		close(done)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		l.refCount++
		return true
	case <-timeoutCtx.Done():
		// The waiter still gets the mutex eventually; hand it straight back.
		go func() {
			<-done
			l.mu.Unlock()
		}()
		return false
	}
}

// WithLock runs fn while holding the key's lock.
func (kl *KeyLock) WithLock(key uint, fn func() error) error {
	kl.Lock(key)
	defer kl.Unlock(key)
	return fn()
}

// WithLockContext runs fn while holding the key's lock, giving up after timeout or when
// ctx is cancelled.
func (kl *KeyLock) WithLockContext(ctx context.Context, key uint, timeout time.Duration, fn func() error) error {
	if !kl.LockWithTimeout(ctx, key, timeout) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrLockTimeout
	}
	defer kl.Unlock(key)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}

// IsLocked is a point-in-time check and may be stale as soon as it returns.
func (kl *KeyLock) IsLocked(key uint) bool {
	if v, ok := kl.locks.Load(key); ok {
		l := v.(*keyMutex)
		if l.mu.TryLock() {
			l.mu.Unlock()
			return false
		}
		return true
	}
	return false
}
