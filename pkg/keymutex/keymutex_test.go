package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	km := New()

	const iterations = 500
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				km.Lock("user-1")
				counter++
				km.Unlock("user-1")
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 8*iterations, counter)
}

func TestKeyMutex_IndependentKeysDoNotBlock(t *testing.T) {
	km := New()

	km.Lock("user-1")
	defer km.Unlock("user-1")

	done := make(chan struct{})
	go func() {
		km.Lock("user-2")
		km.Unlock("user-2")
		close(done)
	}()

	<-done // зависнет, если ключи делят один мьютекс
}

func TestKeyMutex_EntryRemovedAfterLastUnlock(t *testing.T) {
	km := New()

	km.Lock("user-1")
	km.Unlock("user-1")

	km.mu.Lock()
	defer km.mu.Unlock()
	require.Empty(t, km.locks)
}

func TestKeyMutex_UnlockWithoutLockPanics(t *testing.T) {
	km := New()

	require.Panics(t, func() {
		km.Unlock("user-1")
	})
}
