package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Local is the durable-local Adapter: synchronous, same-process sqlite
// durability with no changefeed. It mirrors the collection in memory and
// saves the whole mirror on every mutation, matching the KV store's
// whole-collection replace semantics.
type Local[E Entity] struct {
	kv         *KV
	collection string

	mu     sync.Mutex
	mirror []E
}

func NewLocal[E Entity](kv *KV, collection string) *Local[E] {
	return &Local[E]{kv: kv, collection: collection}
}

var _ Adapter[Entity] = (*Local[Entity])(nil)

// LoadAll decodes the last saved snapshot and seeds the mirror.
func (l *Local[E]) LoadAll(_ context.Context) ([]E, error) {
	body, err := l.kv.Load(l.collection)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if body == nil {
		l.mirror = nil
		return nil, nil
	}
	var items []E
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", l.collection, err)
	}
	l.mirror = items
	return append([]E(nil), items...), nil
}

func (l *Local[E]) Insert(_ context.Context, e E) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := append([]E{e}, l.mirror...)
	return l.flush(next)
}

func (l *Local[E]) Update(_ context.Context, e E) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := append([]E(nil), l.mirror...)
	for i := range next {
		if next[i].Key() == e.Key() {
			next[i] = e
			return l.flush(next)
		}
	}
	// Unknown id: keep replace semantics by writing it as newest.
	return l.flush(append([]E{e}, l.mirror...))
}

func (l *Local[E]) Delete(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]E, 0, len(l.mirror))
	for _, e := range l.mirror {
		if e.Key() != id {
			next = append(next, e)
		}
	}
	return l.flush(next)
}

// Subscribe is a no-op locally: there is no other writer to hear from.
func (l *Local[E]) Subscribe(_ context.Context, _ func(Event[E])) (func(), error) {
	return func() {}, nil
}

// flush persists the candidate mirror and only adopts it on success; a
// rejected write (capacity) leaves both the stored snapshot and the mirror
// at their previous state. Caller holds the lock.
func (l *Local[E]) flush(next []E) error {
	body, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", l.collection, err)
	}
	if err := l.kv.Save(l.collection, body); err != nil {
		return err
	}
	l.mirror = next
	return nil
}
