package persist

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// KV is the same-process durable snapshot store behind the local adapter:
// one row per collection, whole-collection replace semantics, no partial
// writes.
type KV struct {
	db       *sqlx.DB
	maxBytes int
}

// OpenKV opens (or creates) the sqlite snapshot file and ensures the schema.
// maxBytes caps a single encoded snapshot; zero means no cap.
func OpenKV(path string, maxBytes int) (*KV, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping snapshot db: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &KV{db: db, maxBytes: maxBytes}, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots(
  collection TEXT PRIMARY KEY,
  body       BLOB NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return nil
}

// Save replaces the stored snapshot for a collection. A body over the byte
// cap is rejected with ErrCapacityExceeded before anything is written, so a
// failed save cannot corrupt the previous snapshot.
func (kv *KV) Save(collection string, body []byte) error {
	if kv.maxBytes > 0 && len(body) > kv.maxBytes {
		return fmt.Errorf("%w: snapshot %q is %d bytes (cap %d)",
			ErrCapacityExceeded, collection, len(body), kv.maxBytes)
	}
	_, err := kv.db.Exec(`
		INSERT INTO snapshots(collection, body, updated_at)
		VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection) DO UPDATE SET
		  body = excluded.body, updated_at = excluded.updated_at
	`, collection, body)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", collection, err)
	}
	return nil
}

// Load returns the last saved snapshot, or (nil, nil) when none exists.
func (kv *KV) Load(collection string) ([]byte, error) {
	var body []byte
	err := kv.db.Get(&body, `SELECT body FROM snapshots WHERE collection = ?`, collection)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", collection, err)
	}
	return body, nil
}

func (kv *KV) Close() error { return kv.db.Close() }
