// Package store keeps entity records in SQLite and loads them back with
// relation expansions applied.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/sift/internal/schema"
)

// CurrentDBVersion is the current database schema version.
const CurrentDBVersion = 1

// Database is the SQLite record store.
type Database struct {
	db      *sql.DB
	catalog *schema.Catalog
}

// Open opens or creates the database file at path.
func Open(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// SetCatalog makes reads apply the catalog's privacy rules and lets Import
// map fixture keys to collections.
func (d *Database) SetCatalog(cat *schema.Catalog) {
	d.catalog = cat
}

func (d *Database) initialize() error {
	ddl := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- One row per record; data holds the full JSON object, id included.
		CREATE TABLE IF NOT EXISTS records (
			tbl TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			updated_at INTEGER,
			PRIMARY KEY (tbl, id)
		);
	`
	if _, err := d.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

// Stats contains per-table record counts.
type Stats struct {
	Tables map[string]int
	Total  int
}

// Stats counts stored records.
func (d *Database) Stats() (*Stats, error) {
	rows, err := d.db.Query("SELECT tbl, COUNT(*) FROM records GROUP BY tbl ORDER BY tbl")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &Stats{Tables: make(map[string]int)}
	for rows.Next() {
		var tbl string
		var n int
		if err := rows.Scan(&tbl, &n); err != nil {
			return nil, err
		}
		stats.Tables[tbl] = n
		stats.Total += n
	}
	return stats, rows.Err()
}
