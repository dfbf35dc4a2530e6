package locking

import (
	"sort"
	"sync"
)

// KeyedMutex serializes work per string key. Reconciliation uses it to ensure
// two concurrent mutations against the same party or account cannot interleave
// between reading the ledger aggregates and persisting the recomputed balance.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the mutex for a single key.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for a single key.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if ok {
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		l.mu.Unlock()
	}
}

// LockAll acquires several keys in sorted order so that callers locking
// overlapping key sets cannot deadlock. Empty and duplicate keys are skipped.
// The returned function releases every acquired key.
func (k *KeyedMutex) LockAll(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	sort.Strings(unique)

	for _, key := range unique {
		k.Lock(key)
	}
	return func() {
		// Release in reverse acquisition order.
		for i := len(unique) - 1; i >= 0; i-- {
			k.Unlock(unique[i])
		}
	}
}
