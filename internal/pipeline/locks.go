package pipeline

import "sync"

// lockTable hands out one mutex per conversation identity so concurrent
// queries for the same conversation serialize end to end while distinct
// conversations proceed independently. Entries are reference counted and
// removed once the last holder releases.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*lockEntry)}
}

func (t *lockTable) acquire(key string) {
	t.mu.Lock()
	e, ok := t.locks[key]
	if !ok {
		e = &lockEntry{}
		t.locks[key] = e
	}
	e.refs++
	t.mu.Unlock()

	e.mu.Lock()
}

// size reports how many conversations currently hold or wait on a lock.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}

func (t *lockTable) release(key string) {
	t.mu.Lock()
	e := t.locks[key]
	if e != nil {
		e.refs--
		if e.refs <= 0 {
			delete(t.locks, key)
		}
	}
	t.mu.Unlock()

	if e != nil {
		e.mu.Unlock()
	}
}
