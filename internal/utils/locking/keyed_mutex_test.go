package locking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("party-1")
			defer km.Unlock("party-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("a")
	defer km.Unlock("a")

	done := make(chan struct{})
	go func() {
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on an unrelated key blocked")
	}
}

func TestKeyedMutex_LockAllOrdering(t *testing.T) {
	km := NewKeyedMutex()

	// Two goroutines locking the same pair in opposite order must not deadlock.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := km.LockAll("party-1", "account-1")
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := km.LockAll("account-1", "party-1")
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("LockAll deadlocked")
	}
}

func TestKeyedMutex_LockAllSkipsEmptyAndDuplicate(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.LockAll("", "x", "x")
	unlock()

	// Key must be free again afterwards.
	km.Lock("x")
	km.Unlock("x")
}
