// Package ledger hands out request IDs for in-flight preview runs. Issuing a
// new ID invalidates every earlier one, so a run can check at each step
// whether it has been superseded.
package ledger

import "sync"

// Ledger tracks which request IDs are still live. The zero value is ready to
// use.
type Ledger struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]struct{}
}

// New returns an empty ledger.
func New() *Ledger { return &Ledger{} }

// Issue invalidates all outstanding IDs and returns a fresh one. IDs are
// never reused within a ledger's lifetime.
func (l *Ledger) Issue() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.live = map[uint64]struct{}{l.next: {}}
	return l.next
}

// Valid reports whether id is the current, uncancelled request.
func (l *Ledger) Valid(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.live[id]
	return ok
}

// Invalidate drops id. Unknown IDs are ignored.
func (l *Ledger) Invalidate(id uint64) {
	l.mu.Lock()
	delete(l.live, id)
	l.mu.Unlock()
}

// Reset invalidates every outstanding ID. The counter keeps increasing.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.live = nil
	l.mu.Unlock()
}

// Current returns the most recently issued ID and whether it is still live.
func (l *Ledger) Current() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.live[l.next]
	return l.next, ok
}
