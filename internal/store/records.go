package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Put inserts or replaces one record.
func (d *Database) Put(ctx context.Context, table, id string, record map[string]interface{}) error {
	return putRecord(ctx, d.db, table, id, record)
}

func putRecord(ctx context.Context, ex execer, table, id string, record map[string]interface{}) error {
	if table == "" || id == "" {
		return fmt.Errorf("record needs a table and an id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", table, id, err)
	}
	_, err = ex.ExecContext(ctx,
		`INSERT OR REPLACE INTO records (tbl, id, data, updated_at) VALUES (?, ?, ?, ?)`,
		table, id, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store %s %s: %w", table, id, err)
	}
	return nil
}

// Get returns the stored record without expansions, or nil when absent.
func (d *Database) Get(ctx context.Context, table, id string) (map[string]interface{}, error) {
	var data string
	err := d.db.QueryRowContext(ctx, `SELECT data FROM records WHERE tbl = ? AND id = ?`, table, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", table, id, err)
	}
	return decodeRecord(data)
}

// Delete removes one record. Deleting a missing record is not an error.
func (d *Database) Delete(ctx context.Context, table, id string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM records WHERE tbl = ? AND id = ?`, table, id)
	return err
}

func decodeRecord(data string) (map[string]interface{}, error) {
	var record map[string]interface{}
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return record, nil
}

// recordID renders an id value the way it is keyed in the records table.
func recordID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
	}
	return fmt.Sprint(v)
}
