package store

import (
	"context"
	"errors"
	"fmt"

	applog "showroom/internal/log"
	"showroom/internal/persist"
)

// Reconciler binds one Collection to one persistence Adapter and keeps them
// convergent: local mutation intents are applied optimistically then
// submitted for durability, and every incoming change event (remote-origin
// or an echo of this session's own write) flows through the single
// idempotent Apply reducer.
//
// There is no tombstone or version tracking: among updates to a live
// entity, last event wins. An update for an absent id is dropped rather
// than treated as an insert, so a delete is never reversed by a stale
// update; only an insert event re-creates an entity.
type Reconciler[E Entity] struct {
	name    string
	col     *Collection[E]
	adapter persist.Adapter[E]
	cancel  func()
}

func NewReconciler[E Entity](name string, col *Collection[E], adapter persist.Adapter[E]) *Reconciler[E] {
	return &Reconciler[E]{name: name, col: col, adapter: adapter}
}

// Collection exposes the reconciled collection for read paths.
func (r *Reconciler[E]) Collection() *Collection[E] { return r.col }

// Start seeds the collection from the adapter's full snapshot, then opens
// the change subscription. Seed runs before any incremental event is
// applied.
func (r *Reconciler[E]) Start(ctx context.Context) error {
	items, err := r.adapter.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("seed %s: %w", r.name, err)
	}
	r.col.Seed(items)

	cancel, err := r.adapter.Subscribe(ctx, r.Apply)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", r.name, err)
	}
	r.cancel = cancel
	return nil
}

// Stop cancels the change subscription, if one is open.
func (r *Reconciler[E]) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Create applies the insert optimistically, then submits it. An adapter
// failure is returned for the caller to surface as a warning; the in-memory
// entry stands either way.
func (r *Reconciler[E]) Create(ctx context.Context, e E) error {
	if err := r.col.Add(e); err != nil {
		return err
	}
	if err := r.adapter.Insert(ctx, e); err != nil {
		return fmt.Errorf("persist create %s/%s: %w", r.name, e.Key(), err)
	}
	return nil
}

// Modify replaces the stored entry in place, then submits the update.
func (r *Reconciler[E]) Modify(ctx context.Context, e E) error {
	if err := r.col.Update(e); err != nil {
		return err
	}
	if err := r.adapter.Update(ctx, e); err != nil {
		return fmt.Errorf("persist update %s/%s: %w", r.name, e.Key(), err)
	}
	return nil
}

// Drop removes locally (terminal, irreversible) and submits the delete.
// Dropping an absent id is a no-op.
func (r *Reconciler[E]) Drop(ctx context.Context, id string) error {
	if !r.col.Remove(id) {
		return nil
	}
	if err := r.adapter.Delete(ctx, id); err != nil {
		return fmt.Errorf("persist delete %s/%s: %w", r.name, id, err)
	}
	return nil
}

// Apply is the idempotent reducer for incoming change events. Applying the
// same event twice causes no additional effect, and no sequence of events
// can leave two entries with one id. It never fails: invariant violations
// here mean a racing event already did the work, so they are logged at
// debug-relevant level and dropped.
func (r *Reconciler[E]) Apply(ev persist.Event[E]) {
	switch ev.Op {
	case persist.OpInsert:
		// Optimistic-then-echo lands here: the id already exists, no-op.
		if err := r.col.Add(ev.Entity); err != nil && !errors.Is(err, ErrDuplicateID) {
			applog.Error(nil, "reconcile.insert", err, map[string]any{"collection": r.name, "id": ev.ID})
		}
	case persist.OpUpdate:
		err := r.col.Update(ev.Entity)
		if errors.Is(err, ErrNotFound) {
			// Absent id: either the entity was deleted and this update is
			// stale, or the local snapshot predates it. Without tombstones
			// the two are indistinguishable, so the update is dropped; a
			// delete must never be reversed by a late update. A genuinely
			// new entity arrives as an insert event.
			applog.Info(nil, "reconcile.update.dropped", map[string]any{"collection": r.name, "id": ev.ID})
			return
		}
		if err != nil {
			applog.Error(nil, "reconcile.update", err, map[string]any{"collection": r.name, "id": ev.ID})
		}
	case persist.OpDelete:
		r.col.Remove(ev.ID)
	default:
		applog.Error(nil, "reconcile.unknown_op", fmt.Errorf("op %q", ev.Op), map[string]any{"collection": r.name, "id": ev.ID})
	}
}
