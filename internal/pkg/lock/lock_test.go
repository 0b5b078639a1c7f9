package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestWithLockSerialisesWritersProperty checks that concurrent read-modify-write cycles
// under one key never lose an update.
func TestWithLockSerialisesWritersProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(2, 30).Draw(t, "numOps")
		key := rapid.UintRange(1, 1000).Draw(t, "key")

		kl := NewKeyLock()
		balls := 0

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				_ = kl.WithLock(key, func() error {
					current := balls
					balls = current + 1
					return nil
				})
			}()
		}
		wg.Wait()

		if balls != numOps {
			t.Fatalf("expected %d recorded balls, got %d", numOps, balls)
		}
		if kl.IsLocked(key) {
			t.Fatal("lock should be free after all writers finish")
		}
	})
}

// TestIndependentKeysProperty checks that each key keeps its own count.
func TestIndependentKeysProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numKeys := rapid.IntRange(2, 8).Draw(t, "numKeys")
		opsPerKey := rapid.IntRange(1, 15).Draw(t, "opsPerKey")

		kl := NewKeyLock()
		counts := make([]int, numKeys)

		var wg sync.WaitGroup
		wg.Add(numKeys * opsPerKey)
		for k := 0; k < numKeys; k++ {
			for j := 0; j < opsPerKey; j++ {
				go func(k int) {
					defer wg.Done()
					kl.Lock(uint(k))
					defer kl.Unlock(uint(k))
					counts[k]++
				}(k)
			}
		}
		wg.Wait()

		for k, c := range counts {
			if c != opsPerKey {
				t.Fatalf("key %d: expected %d, got %d", k, opsPerKey, c)
			}
		}
	})
}

func TestTryLock(t *testing.T) {
	kl := NewKeyLock()

	require.True(t, kl.TryLock(7))
	assert.True(t, kl.IsLocked(7))
	assert.False(t, kl.TryLock(7))
	assert.True(t, kl.TryLock(8), "other keys are not blocked")

	kl.Unlock(7)
	kl.Unlock(8)
	assert.False(t, kl.IsLocked(7))
	assert.False(t, kl.IsLocked(99))
}

func TestWithLockContext_Timeout(t *testing.T) {
	kl := NewKeyLock()
	kl.Lock(1)

	var ran atomic.Bool
	err := kl.WithLockContext(context.Background(), 1, 20*time.Millisecond, func() error {
		ran.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, ran.Load())

	kl.Unlock(1)
	require.Eventually(t, func() bool { return !kl.IsLocked(1) }, time.Second, 5*time.Millisecond)

	err = kl.WithLockContext(context.Background(), 1, time.Second, func() error {
		ran.Store(true)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, ran.Load())
}

func TestWithLockContext_Cancelled(t *testing.T) {
	kl := NewKeyLock()
	kl.Lock(1)
	defer kl.Unlock(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := kl.WithLockContext(ctx, 1, time.Second, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
