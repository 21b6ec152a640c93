package persist

import (
	"context"
	"errors"
)

var (
	// ErrCapacityExceeded means a durable-local write would overflow the
	// configured snapshot budget. The write is abandoned; the previous
	// snapshot and the in-memory state both stand.
	ErrCapacityExceeded = errors.New("storage capacity exceeded")

	// ErrRemoteWrite wraps a failed remote insert/update/delete. The
	// optimistic in-memory state is left standing, inconsistent with the
	// remote until the next reconcile.
	ErrRemoteWrite = errors.New("remote write failed")
)

// Entity mirrors store.Entity so the adapter layer does not depend on the
// store package.
type Entity interface {
	Key() string
}

// Op tags a change event.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is one committed change, delivered by a changefeed subscription or
// synthesized from a local mutation. Delete events carry only the ID.
type Event[E Entity] struct {
	Op     Op     `json:"op"`
	ID     string `json:"id"`
	Entity E      `json:"entity"`
}

// Adapter owns durability and remote consistency for one logical collection.
// Implementations: the durable-local sqlite snapshot store and the
// Postgres-with-changefeed store. The adapter is a delegate of the entity
// store, never a second owner.
//
// Subscribe delivers change events committed by any client, including this
// one's own writes: self-originated echoes are NOT suppressed here, the
// reconciler absorbs them. The handler is invoked from the subscription's
// goroutine. The returned cancel func stops delivery.
type Adapter[E Entity] interface {
	LoadAll(ctx context.Context) ([]E, error)
	Insert(ctx context.Context, e E) error
	Update(ctx context.Context, e E) error
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context, fn func(Event[E])) (cancel func(), err error)
}
