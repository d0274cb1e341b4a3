package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore mirrors a collection into relational tables. Each Replace
// swaps the whole catalog inside one transaction.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS songs (
  id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  composer TEXT NOT NULL DEFAULT '',
  sub TEXT NOT NULL DEFAULT '',
  tags TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS arrangements (
  id INTEGER PRIMARY KEY,
  song_id INTEGER NOT NULL REFERENCES songs (id) ON DELETE CASCADE,
  name TEXT
);

CREATE TABLE IF NOT EXISTS parts (
  id INTEGER PRIMARY KEY,
  arrangement_id INTEGER NOT NULL REFERENCES arrangements (id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  instrument TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
  id SERIAL PRIMARY KEY,
  arrangement_id INTEGER NOT NULL REFERENCES arrangements (id) ON DELETE CASCADE,
  part_id INTEGER REFERENCES parts (id) ON DELETE CASCADE,
  url TEXT NOT NULL,
  extension TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_arrangements_song_id ON arrangements (song_id);
CREATE INDEX IF NOT EXISTS idx_files_arrangement_id ON files (arrangement_id);
`)
	})
	return s.schemaErr
}

// Replace deletes the previous catalog and inserts rows.
func (s *PostgresStore) Replace(ctx context.Context, rows Rows) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades clear the dependent tables.
	if _, err := tx.ExecContext(ctx, `DELETE FROM songs`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	for _, r := range rows.Songs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO songs (id, title, composer, sub, tags) VALUES ($1, $2, $3, $4, $5)`,
			r.ID, r.Title, r.Composer, r.Sub, r.Tags); err != nil {
			return fmt.Errorf("insert song %d: %w", r.ID, err)
		}
	}
	for _, r := range rows.Arrangements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO arrangements (id, song_id, name) VALUES ($1, $2, $3)`,
			r.ID, r.SongID, nullString(r.Name)); err != nil {
			return fmt.Errorf("insert arrangement %d: %w", r.ID, err)
		}
	}
	for _, r := range rows.Parts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parts (id, arrangement_id, name, instrument) VALUES ($1, $2, $3, $4)`,
			r.ID, r.ArrangementID, r.Name, r.Instrument); err != nil {
			return fmt.Errorf("insert part %d: %w", r.ID, err)
		}
	}
	for _, r := range rows.Files {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO files (arrangement_id, part_id, url, extension) VALUES ($1, $2, $3, $4)`,
			r.ArrangementID, nullInt(r.PartID), r.URL, r.Extension); err != nil {
			return fmt.Errorf("insert file %s: %w", r.URL, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of rows in each table.
func (s *PostgresStore) Count(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 4)
	for _, table := range []string{"songs", "arrangements", "parts", "files"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
