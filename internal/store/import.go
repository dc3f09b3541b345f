package store

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/sift/internal/logging"
	"github.com/aidanlsb/sift/internal/schema"
)

// ImportResult reports how many records each table received.
type ImportResult struct {
	Tables map[string]int `json:"tables"`
	Total  int            `json:"total"`
}

// Import loads a fixture file mapping entity (or collection) names to lists
// of records. JSON files are read the same way, being valid YAML. With a
// catalog set, system fields in the file are dropped, defaults are applied,
// timestamped entities get fresh timestamps, and the id is read from the
// entity's id field.
func (d *Database) Import(ctx context.Context, path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}

	var fixture map[string][]map[string]interface{}
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}

	keys := make([]string, 0, len(fixture))
	for k := range fixture {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result := &ImportResult{Tables: make(map[string]int)}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, key := range keys {
		table, idField := key, schema.DefaultIDField
		e := d.entityFor(key)
		if e != nil {
			table, idField = e.Collection, e.IDField
		}

		for i, record := range fixture[key] {
			if e != nil {
				record = e.ApplyDefaults(e.StripSystem(record))
				if e.Timestamped {
					record["createdAt"] = now
					record["updatedAt"] = now
				}
			}
			id := recordID(record[idField])
			if id == "" {
				return nil, fmt.Errorf("%s record %d has no %s", key, i, idField)
			}
			if err := putRecord(ctx, tx, table, id, record); err != nil {
				return nil, err
			}
			result.Tables[table]++
			result.Total++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	logging.Info().Str("path", path).Int("records", result.Total).Msg("imported fixture")
	return result, nil
}

func (d *Database) entityFor(key string) *schema.EntityType {
	if d.catalog == nil {
		return nil
	}
	if e, ok := d.catalog.Entity(key); ok {
		return e
	}
	if e, ok := d.catalog.ByCollection(key); ok {
		return e
	}
	return nil
}
