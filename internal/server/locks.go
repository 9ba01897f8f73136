package server

import "sync"

// lockTable serializes score and status mutations per game id. Both the HTTP
// handlers and the realtime hub must take this lock around their
// authorize/persist/broadcast sequence; mutations on different games run
// concurrently.
type lockTable struct {
	mu    sync.Mutex
	locks map[uint]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{
		locks: make(map[uint]*gameLock),
	}
}

// Lock acquires the per-game mutex and returns the matching unlock func.
func (t *lockTable) Lock(gameID uint) func() {
	t.mu.Lock()
	entry := t.locks[gameID]
	if entry == nil {
		entry = &gameLock{}
		t.locks[gameID] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		t.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(t.locks, gameID)
		}
		t.mu.Unlock()
	}
}
