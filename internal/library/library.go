// Package library is the local catalog reconciliation results persist into.
package library

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/autobrr/go-aspectratio/internal/reconcile"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	kind TEXT NOT NULL,
	aspect_ratio TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);
`

// Item is one catalog row.
type Item struct {
	ID          uuid.UUID
	Path        string
	Kind        reconcile.Kind
	AspectRatio string
	Duration    time.Duration
	UpdatedAt   time.Time
}

// ReconcileItem maps a catalog row to the engine's input shape.
func (it Item) ReconcileItem() reconcile.Item {
	return reconcile.Item{
		Path:        it.Path,
		Kind:        it.Kind,
		AspectRatio: it.AspectRatio,
		Duration:    it.Duration,
	}
}

// Store is a SQLite-backed item catalog.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Upsert registers a path in the catalog, keeping any previously recorded
// aspect ratio. The returned item reflects the stored row.
func (s *Store) Upsert(path string, kind reconcile.Kind, duration time.Duration) (Item, error) {
	existing, err := s.Get(path)
	if err == nil {
		if existing.Duration != duration {
			_, err = s.db.Exec(`UPDATE items SET duration_ms = ? WHERE id = ?`,
				duration.Milliseconds(), existing.ID.String())
			if err != nil {
				return Item{}, fmt.Errorf("update item %s: %w", path, err)
			}
			existing.Duration = duration
		}
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return Item{}, err
	}

	item := Item{
		ID:        uuid.New(),
		Path:      path,
		Kind:      kind,
		Duration:  duration,
		UpdatedAt: time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO items (id, path, kind, aspect_ratio, duration_ms, updated_at) VALUES (?, ?, ?, '', ?, ?)`,
		item.ID.String(), item.Path, string(item.Kind), item.Duration.Milliseconds(),
		item.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Item{}, fmt.Errorf("insert item %s: %w", path, err)
	}
	return item, nil
}

// Get returns the item stored for path; sql.ErrNoRows when absent.
func (s *Store) Get(path string) (Item, error) {
	row := s.db.QueryRow(
		`SELECT id, path, kind, aspect_ratio, duration_ms, updated_at FROM items WHERE path = ?`, path)
	return scanItem(row)
}

// SetAspectRatio records a reconciliation write and bumps the modification
// stamp, the catalog's "metadata imported" signal.
func (s *Store) SetAspectRatio(id uuid.UUID, ratio string) error {
	res, err := s.db.Exec(
		`UPDATE items SET aspect_ratio = ?, updated_at = ? WHERE id = ?`,
		ratio, time.Now().UTC().Format(time.RFC3339Nano), id.String())
	if err != nil {
		return fmt.Errorf("update aspect ratio: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no item with id %s", id)
	}
	return nil
}

// List returns all items ordered by path.
func (s *Store) List() ([]Item, error) {
	rows, err := s.db.Query(
		`SELECT id, path, kind, aspect_ratio, duration_ms, updated_at FROM items ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0, 64)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		id         string
		kind       string
		durationMs int64
		updated    string
		item       Item
	)
	if err := row.Scan(&id, &item.Path, &kind, &item.AspectRatio, &durationMs, &updated); err != nil {
		return Item{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Item{}, fmt.Errorf("corrupt item id %q: %w", id, err)
	}
	item.ID = parsed
	item.Kind = reconcile.Kind(kind)
	item.Duration = time.Duration(durationMs) * time.Millisecond
	if ts, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		item.UpdatedAt = ts
	}
	return item, nil
}
