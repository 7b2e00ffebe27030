package service

import "sync"

// roomLocks serializes booking creation per room. The transaction re-checks
// availability as well, so the mutex is a first line of defense that keeps two
// requests for the same room from racing between the check and the insert.
type roomLocks struct {
	locks sync.Map
}

// Lock acquires the mutex for the room and returns its release func.
func (r *roomLocks) Lock(roomID string) func() {
	actual, _ := r.locks.LoadOrStore(roomID, &sync.Mutex{})
	mu, _ := actual.(*sync.Mutex)
	mu.Lock()

	return mu.Unlock
}
