package persist

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver (pure Go)
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite WASM binary

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/rebind"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS rebind_packs (
	seq          INTEGER PRIMARY KEY,
	context_id   TEXT    NOT NULL,
	action_id    TEXT    NOT NULL,
	default_key  TEXT    NOT NULL,
	custom_key   TEXT    NOT NULL,
	display_name TEXT    NOT NULL,
	position     INTEGER NOT NULL
)`

// SQLiteStore keeps rebind packs in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if version == schemaVersion {
		return nil
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}

// Load reads all packs in saved order
func (s *SQLiteStore) Load() ([]rebind.Pack, error) {
	ctx := context.Background()

	rows, err := s.db.QueryContext(ctx, `
		SELECT context_id, action_id, default_key, custom_key, display_name, position
		FROM rebind_packs
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query packs: %w", err)
	}
	defer rows.Close()

	var packs []rebind.Pack
	for rows.Next() {
		var p rebind.Pack
		var defaultKey, customKey string
		if err := rows.Scan(&p.ContextID, &p.ActionID, &defaultKey, &customKey, &p.DisplayName, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan pack: %w", err)
		}
		p.DefaultKey = key.Key(defaultKey)
		p.CustomKey = key.Key(customKey)
		packs = append(packs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read packs: %w", err)
	}

	return packs, nil
}

// Save replaces every stored pack in one transaction
func (s *SQLiteStore) Save(packs []rebind.Pack) (err error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM rebind_packs"); err != nil {
		return fmt.Errorf("failed to clear packs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rebind_packs (seq, context_id, action_id, default_key, custom_key, display_name, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range packs {
		if _, err = stmt.ExecContext(ctx, i, p.ContextID, p.ActionID, string(p.DefaultKey), string(p.CustomKey), p.DisplayName, p.Position); err != nil {
			return fmt.Errorf("failed to insert pack %s: %w", p, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit packs: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
