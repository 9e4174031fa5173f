// Package snapshot persists saved event payloads in a local SQLite file so
// they survive process restarts and upstream outages.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	domain "github.com/kleium/casters-tool/internal/domain/snapshot"
)

const schema = `
CREATE TABLE IF NOT EXISTS saved_events (
	event_key  TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	year       INTEGER NOT NULL DEFAULT 0,
	saved_at   TIMESTAMP NOT NULL,
	data       BLOB NOT NULL
);`

type SQLiteRepository struct {
	db *sqlx.DB
}

// Open opens (or creates) the snapshot database at path and ensures the
// schema exists.
func Open(path string) (*SQLiteRepository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open snapshot db %s", path)
	}
	// modernc's driver is not safe for concurrent writes on one connection
	// pool larger than one; snapshot traffic is light enough for this.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, crerr.Wrap(err, "create snapshot schema")
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Save(ctx context.Context, snap domain.Snapshot) error {
	const query = `
INSERT INTO saved_events (event_key, name, year, saved_at, data)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (event_key) DO UPDATE SET
	name = excluded.name,
	year = excluded.year,
	saved_at = excluded.saved_at,
	data = excluded.data`

	if _, err := r.db.ExecContext(ctx, query, snap.EventKey, snap.Name, snap.Year, snap.SavedAt, snap.Data); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.EventKey, err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context, eventKey string) (domain.Snapshot, bool, error) {
	const query = `
SELECT event_key, name, year, saved_at, data
FROM saved_events
WHERE event_key = $1`

	var row struct {
		EventKey string    `db:"event_key"`
		Name     string    `db:"name"`
		Year     int       `db:"year"`
		SavedAt  time.Time `db:"saved_at"`
		Data     []byte    `db:"data"`
	}
	if err := r.db.GetContext(ctx, &row, query, eventKey); err != nil {
		if crerr.Is(err, sql.ErrNoRows) {
			return domain.Snapshot{}, false, nil
		}
		return domain.Snapshot{}, false, fmt.Errorf("load snapshot %s: %w", eventKey, err)
	}
	return domain.Snapshot{
		EventKey: row.EventKey,
		Name:     row.Name,
		Year:     row.Year,
		SavedAt:  row.SavedAt,
		Data:     row.Data,
	}, true, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, eventKey string) (bool, error) {
	const query = `DELETE FROM saved_events WHERE event_key = $1`

	res, err := r.db.ExecContext(ctx, query, eventKey)
	if err != nil {
		return false, fmt.Errorf("delete snapshot %s: %w", eventKey, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete snapshot %s: %w", eventKey, err)
	}
	return affected > 0, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]domain.Meta, error) {
	const query = `
SELECT event_key, name, year, saved_at
FROM saved_events
ORDER BY saved_at DESC`

	var rows []struct {
		EventKey string    `db:"event_key"`
		Name     string    `db:"name"`
		Year     int       `db:"year"`
		SavedAt  time.Time `db:"saved_at"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	out := make([]domain.Meta, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Meta{
			EventKey: row.EventKey,
			Name:     row.Name,
			Year:     row.Year,
			SavedAt:  row.SavedAt,
		})
	}
	return out, nil
}
