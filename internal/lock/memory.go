package lock

import (
	"context"
	"fmt"
	"sync"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker is a keyed mutex. Entries are dropped once nobody holds or
// waits on them, so the map only grows with concurrently touched vehicles.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[int32]*entry
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{entries: make(map[int32]*entry)}
}

func (l *MemoryLocker) Lock(ctx context.Context, vehicleID int32) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[vehicleID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[vehicleID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(vehicleID, e, false)
		return nil, fmt.Errorf("%w: vehicle %d: %v", ErrLockTimeout, vehicleID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(vehicleID, e, true) })
	}, nil
}

func (l *MemoryLocker) release(vehicleID int32, e *entry, held bool) {
	if held {
		<-e.ch
	}
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, vehicleID)
	}
	l.mu.Unlock()
}

func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
