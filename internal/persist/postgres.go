package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	applog "showroom/internal/log"
)

// notifyLimit stays under Postgres' 8000-byte NOTIFY payload cap. Larger
// entities (inline image data) are announced by id only and fetched back by
// the subscriber.
const notifyLimit = 7000

// Postgres is the remote-with-changefeed Adapter: entity rows in one table
// per collection, committed changes broadcast over LISTEN/NOTIFY. NOTIFY
// delivers to every listening session including the one that issued the
// write, so this client hears echoes of its own mutations; the reconciler
// absorbs them.
type Postgres[E Entity] struct {
	db         *sqlx.DB
	dsn        string
	collection string
	builder    sq.StatementBuilderType
}

var _ Adapter[Entity] = (*Postgres[Entity])(nil)

// OpenPostgres connects, ensures the collection table, and returns the
// adapter. The DSN is kept for the changefeed listener, which needs its own
// connection.
func OpenPostgres[E Entity](dsn, collection string) (*Postgres[E], error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := &Postgres[E]{
		db:         db,
		dsn:        dsn,
		collection: collection,
		builder:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
	if err := p.ensureTable(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres[E]) ensureTable() error {
	_, err := p.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s(
		  id         TEXT PRIMARY KEY,
		  body       JSONB NOT NULL,
		  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, pq.QuoteIdentifier(p.collection)))
	if err != nil {
		return fmt.Errorf("ensure table %s: %w", p.collection, err)
	}
	return nil
}

func (p *Postgres[E]) channel() string { return "showroom_" + p.collection }

func (p *Postgres[E]) LoadAll(ctx context.Context) ([]E, error) {
	// Ordered by creation, not by last touch: an update must not move a
	// row, so a freshly seeded session sees the same sequence as one that
	// watched the events arrive.
	rows, err := p.builder.
		Select("body").
		From(p.collection).
		OrderBy("created_at DESC").
		RunWith(p.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.collection, err)
	}
	defer rows.Close()

	var out []E
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", p.collection, err)
		}
		var e E
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", p.collection, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", p.collection, err)
	}
	return out, nil
}

func (p *Postgres[E]) Insert(ctx context.Context, e E) error {
	return p.write(ctx, OpInsert, e.Key(), &e)
}

func (p *Postgres[E]) Update(ctx context.Context, e E) error {
	return p.write(ctx, OpUpdate, e.Key(), &e)
}

func (p *Postgres[E]) Delete(ctx context.Context, id string) error {
	return p.write(ctx, OpDelete, id, nil)
}

// write commits the row change and its notification in one transaction, so
// subscribers only ever hear about committed state.
func (p *Postgres[E]) write(ctx context.Context, op Op, id string, e *E) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrRemoteWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	switch op {
	case OpDelete:
		_, err = p.builder.
			Delete(p.collection).
			Where(sq.Eq{"id": id}).
			RunWith(tx).
			ExecContext(ctx)
	default:
		var body []byte
		body, err = json.Marshal(e)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %v", ErrRemoteWrite, id, err)
		}
		_, err = p.builder.
			Insert(p.collection).
			Columns("id", "body", "updated_at").
			Values(id, body, sq.Expr("NOW()")).
			Suffix("ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at").
			RunWith(tx).
			ExecContext(ctx)
	}
	if err != nil {
		return fmt.Errorf("%w: %s %s/%s: %v", ErrRemoteWrite, op, p.collection, id, err)
	}

	payload, err := p.payload(op, id, e)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, p.channel(), payload); err != nil {
		return fmt.Errorf("%w: notify %s/%s: %v", ErrRemoteWrite, p.collection, id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s/%s: %v", ErrRemoteWrite, p.collection, id, err)
	}
	return nil
}

// wireEvent is the NOTIFY payload shape. Entity is omitted for deletes and
// for oversized bodies.
type wireEvent struct {
	Op     Op              `json:"op"`
	ID     string          `json:"id"`
	Entity json.RawMessage `json:"entity,omitempty"`
}

func (p *Postgres[E]) payload(op Op, id string, e *E) ([]byte, error) {
	ev := wireEvent{Op: op, ID: id}
	if e != nil {
		body, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encode event %s: %w", id, err)
		}
		ev.Entity = body
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", id, err)
	}
	if len(payload) > notifyLimit {
		ev.Entity = nil
		if payload, err = json.Marshal(ev); err != nil {
			return nil, fmt.Errorf("encode event %s: %w", id, err)
		}
	}
	return payload, nil
}

// Subscribe opens a dedicated LISTEN connection and pumps decoded events to
// fn until the context ends or cancel is called. pq handles reconnects on
// its own; a re-established connection does not replay missed notifications.
func (p *Postgres[E]) Subscribe(ctx context.Context, fn func(Event[E])) (func(), error) {
	listener := pq.NewListener(p.dsn, 10*time.Second, time.Minute,
		func(_ pq.ListenerEventType, err error) {
			if err != nil {
				applog.Error(nil, "changefeed.listener", err, map[string]any{"collection": p.collection})
			}
		})
	if err := listener.Listen(p.channel()); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen %s: %w", p.channel(), err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case n := <-listener.Notify:
				if n == nil {
					// Reconnect marker; nothing to replay.
					continue
				}
				ev, ok := p.decode(ctx, []byte(n.Extra))
				if !ok {
					continue
				}
				fn(ev)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = listener.Close()
		})
	}
	return cancel, nil
}

func (p *Postgres[E]) decode(ctx context.Context, payload []byte) (Event[E], bool) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		applog.Error(nil, "changefeed.decode", err, map[string]any{"collection": p.collection})
		return Event[E]{}, false
	}
	ev := Event[E]{Op: w.Op, ID: w.ID}
	switch {
	case w.Op == OpDelete:
		// ID is all a delete carries.
	case len(w.Entity) > 0:
		if err := json.Unmarshal(w.Entity, &ev.Entity); err != nil {
			applog.Error(nil, "changefeed.decode_entity", err, map[string]any{"collection": p.collection, "id": w.ID})
			return Event[E]{}, false
		}
	default:
		// Oversized body was announced by id only; fetch it back.
		e, err := p.fetch(ctx, w.ID)
		if err != nil {
			applog.Error(nil, "changefeed.fetch", err, map[string]any{"collection": p.collection, "id": w.ID})
			return Event[E]{}, false
		}
		ev.Entity = e
	}
	return ev, true
}

func (p *Postgres[E]) fetch(ctx context.Context, id string) (E, error) {
	var zero E
	var body []byte
	err := p.builder.
		Select("body").
		From(p.collection).
		Where(sq.Eq{"id": id}).
		RunWith(p.db).
		QueryRowContext(ctx).
		Scan(&body)
	if err == sql.ErrNoRows {
		return zero, fmt.Errorf("row %s vanished before fetch", id)
	}
	if err != nil {
		return zero, err
	}
	var e E
	if err := json.Unmarshal(body, &e); err != nil {
		return zero, err
	}
	return e, nil
}

func (p *Postgres[E]) Close() error { return p.db.Close() }
