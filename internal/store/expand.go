package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/aidanlsb/sift/internal/logging"
	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/sqlutil"
)

// FindByID loads one record and attaches the requested expansions. It
// returns (nil, nil) when the record does not exist.
func (d *Database) FindByID(ctx context.Context, table, id string, expand query.Expansions) (map[string]interface{}, error) {
	record, err := d.Get(ctx, table, id)
	if err != nil || record == nil {
		return nil, err
	}
	if err := d.expandRecord(ctx, record, expand); err != nil {
		return nil, err
	}
	if d.catalog != nil {
		if e, ok := d.catalog.ByCollection(table); ok {
			e.Redact(record)
		}
	}

	logging.Debug().
		Str("table", table).
		Str("id", id).
		Int("expansions", len(expand)).
		Msg("fetched record")
	return record, nil
}

func (d *Database) expandRecord(ctx context.Context, record map[string]interface{}, expand query.Expansions) error {
	// Map order is random; resolve names in a stable order for logs and errors.
	names := make([]string, 0, len(expand))
	for name := range expand {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		desc := expand[name]
		related, err := d.related(ctx, record, desc)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", name, err)
		}
		for _, child := range related {
			if err := d.expandRecord(ctx, child, desc.Expand); err != nil {
				return err
			}
			d.redact(desc.ToEntity, child)
		}

		if desc.Cardinality == query.One {
			if len(related) == 0 {
				record[name] = nil
			} else {
				record[name] = related[0]
			}
			continue
		}
		list := make([]interface{}, len(related))
		for i, child := range related {
			list[i] = child
		}
		record[name] = list
	}
	return nil
}

// related fetches the records a descriptor joins to.
func (d *Database) related(ctx context.Context, record map[string]interface{}, desc query.ExpansionDescriptor) ([]map[string]interface{}, error) {
	local, ok := record[desc.FromField]
	if !ok || local == nil {
		return nil, nil
	}

	if desc.ThroughTable == "" {
		return d.selectWhere(ctx, desc.ToTable, desc.ToField, []interface{}{local})
	}

	pivots, err := d.selectWhere(ctx, desc.ThroughTable, desc.ThroughFromField, []interface{}{local})
	if err != nil {
		return nil, err
	}
	var keys []interface{}
	for _, p := range pivots {
		if v, ok := p[desc.ThroughToField]; ok && v != nil {
			keys = append(keys, v)
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return d.selectWhere(ctx, desc.ToTable, desc.ToField, keys)
}

func (d *Database) selectWhere(ctx context.Context, table, field string, values []interface{}) ([]map[string]interface{}, error) {
	placeholders, args := sqlutil.InClauseArgs(values)
	q := fmt.Sprintf(`SELECT data FROM records WHERE tbl = ? AND json_extract(data, ?) IN (%s) ORDER BY id`, placeholders)

	rows, err := d.db.QueryContext(ctx, q, append([]any{table, sqlutil.JSONPath(field)}, args...)...)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (map[string]interface{}, error) {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		return decodeRecord(data)
	})
}

func (d *Database) redact(entity string, record map[string]interface{}) {
	if d.catalog == nil {
		return
	}
	if e, ok := d.catalog.Entity(entity); ok {
		e.Redact(record)
	}
}
