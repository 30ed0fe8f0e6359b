package service

import (
	"sync"

	"github.com/google/uuid"
)

// keyedLocks serializes in-process writers per order ID. It complements the
// repository's optimistic version checks: the mutex keeps one process from
// racing itself, the version column keeps multiple processes honest.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[uuid.UUID]*lockEntry)}
}

// Lock acquires the mutex for key and returns its unlock function. Entries
// are refcounted and removed once the last holder releases.
func (k *keyedLocks) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
