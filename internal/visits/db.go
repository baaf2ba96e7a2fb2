package visits

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	visited_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS visits_visited_at ON visits (visited_at);
CREATE TABLE IF NOT EXISTS project_clicks (
	slug TEXT PRIMARY KEY,
	clicks INTEGER NOT NULL DEFAULT 0,
	last_click_at INTEGER
);`

// Open opens (creating if needed) the SQLite database at path and
// applies the schema. SQLite serializes writers anyway, so the pool is
// kept to a single connection; this also makes ":memory:" usable.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}
