package suggest

import "sync/atomic"

// #region lock

// Lock is the mutual-exclusion guard for one suggestion flow. It spans the
// whole validate-then-confirm critical section. Release points are
// enumerated at the call sites in Validator and the orchestrator:
//   - released on content rejection,
//   - released on connection error,
//   - held through acceptance until the next turn opens,
//   - deliberately NOT released when the confirmation callback fails
//     (fail-closed: a stuck lock beats a double-applied budget delta).
type Lock struct {
	held atomic.Bool
}

// TryAcquire claims the lock. Returns false if it is already held.
func (l *Lock) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

// Release frees the lock. Safe to call when not held.
func (l *Lock) Release() {
	l.held.Store(false)
}

// Held reports whether the lock is currently claimed.
func (l *Lock) Held() bool {
	return l.held.Load()
}

// #endregion lock
