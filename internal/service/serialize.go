package service

import "sync"

// showtimeLocks is a keyed mutex. When seat serialization is enabled the
// engine holds the showtime's lock across each read-modify-write of the
// owning movie, closing the lost-update window between concurrent lockers
// of the same showtime within one process. Entries are dropped once no
// goroutine holds or waits on them.
type showtimeLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newShowtimeLocks() *showtimeLocks {
	return &showtimeLocks{locks: map[string]*keyedLock{}}
}

func (l *showtimeLocks) lock(key string) (unlock func()) {
	l.mu.Lock()
	k, ok := l.locks[key]
	if !ok {
		k = &keyedLock{}
		l.locks[key] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()
	return func() {
		k.mu.Unlock()
		l.mu.Lock()
		k.refs--
		if k.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *showtimeLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
