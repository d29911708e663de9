package service

import "sync"

// threadLocks serializes orchestration per thread: at most one run is active
// on a thread from this orchestrator at a time. Without this, concurrent
// questions on one thread interleave their messages and runs on the remote
// backend and desynchronize conversation order.
type threadLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newThreadLocks() *threadLocks {
	return &threadLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// lock acquires the mutex for a thread, creating it on first use, and
// returns the unlock function.
func (l *threadLocks) lock(threadID string) func() {
	l.mu.Lock()
	m, ok := l.locks[threadID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[threadID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
