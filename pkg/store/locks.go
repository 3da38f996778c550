package store

import (
	"fmt"
	"os"
	"sync"
)

// LockRegistry serializes access to store files between crawl pipelines and
// the consolidator. A pipeline holds its store's lock for the whole run; the
// consolidator skips any store it cannot lock instead of blocking a crawl.
// Each lock is backed by a sidecar .lock file, so concurrent newslook
// processes exclude each other as well as goroutines within one process.
type LockRegistry struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{held: make(map[string]bool)}
}

// Locks is the process-wide registry shared by crawl and consolidation.
var Locks = NewLockRegistry()

// TryLock acquires the lock for a store path without blocking. A stale .lock
// file left behind by a crashed process must be removed by hand.
func (r *LockRegistry) TryLock(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.held[path] {
		return false
	}
	f, err := os.OpenFile(lockPath(path), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return false
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	r.held[path] = true
	return true
}

// Unlock releases a previously acquired lock. Unlocking a path this registry
// does not hold is a no-op, so one process cannot release another's lock.
func (r *LockRegistry) Unlock(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.held[path] {
		return
	}
	delete(r.held, path)
	os.Remove(lockPath(path))
}

func lockPath(path string) string { return path + ".lock" }
