package store

import (
	"errors"
	"sync"
)

var (
	// ErrDuplicateID and ErrNotFound mark invariant violations on local
	// mutation intents. Correct callers never trigger them; the reconciler
	// logs and ignores them when change events race.
	ErrDuplicateID = errors.New("duplicate id")
	ErrNotFound    = errors.New("not found")
)

// Entity is anything the store can hold, keyed by an opaque unique id.
type Entity interface {
	Key() string
}

// Collection is the canonical in-memory, newest-first sequence of one entity
// type. All mutation goes through its API; handlers and the changefeed
// goroutine share it, so every method locks.
type Collection[E Entity] struct {
	mu      sync.RWMutex
	items   []E
	version uint64
}

func NewCollection[E Entity]() *Collection[E] {
	return &Collection[E]{}
}

// Add inserts at the head (newest-first presentation order).
func (c *Collection[E]) Add(e E) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(e.Key()) >= 0 {
		return ErrDuplicateID
	}
	c.items = append([]E{e}, c.items...)
	c.version++
	return nil
}

// Update replaces the entry with the same id in place; the collection order
// is never disturbed by an update.
func (c *Collection[E]) Update(e E) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(e.Key())
	if i < 0 {
		return ErrNotFound
	}
	c.items[i] = e
	c.version++
	return nil
}

// Remove deletes by id. Removing an absent id is a no-op, not an error, so
// duplicate delete notifications are harmless. Reports whether an entry was
// actually removed.
func (c *Collection[E]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.version++
	return true
}

// Get returns the entry with the given id, if present.
func (c *Collection[E]) Get(id string) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero E
	return zero, false
}

// Has reports presence without copying.
func (c *Collection[E]) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(id) >= 0
}

// Snapshot returns a defensive copy; later mutations are never observable
// through a previously taken snapshot.
func (c *Collection[E]) Snapshot() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]E(nil), c.items...)
}

// SnapshotVersion returns the copy together with the version it reflects,
// under one lock, so memoizing callers cannot pair a stale version with a
// newer snapshot.
func (c *Collection[E]) SnapshotVersion() ([]E, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]E(nil), c.items...), c.version
}

func (c *Collection[E]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Version increments on every effective mutation.
func (c *Collection[E]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Seed replaces the contents wholesale. Used once at startup with the
// adapter's LoadAll result, before any incremental event arrives.
func (c *Collection[E]) Seed(items []E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]E(nil), items...)
	c.version++
}

// indexOf assumes the lock is held. Collections are small (a showroom, not a
// warehouse); a linear scan beats maintaining a side index.
func (c *Collection[E]) indexOf(id string) int {
	for i, e := range c.items {
		if e.Key() == id {
			return i
		}
	}
	return -1
}
