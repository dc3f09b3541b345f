package query

import (
	"fmt"
	"reflect"
	"strings"
)

// BuildFilter formats one filter clause. Strings are quoted, slices become a
// parenthesized list, and NULL checks take no value.
//
//	BuildFilter("name", OpEq, "Greg")          // name = 'Greg'
//	BuildFilter("id", OpIn, []int{1, 2})       // id IN (1,2)
//	BuildFilter("email", OpIsNull, nil)        // email IS NULL
func BuildFilter(field string, op Operator, value interface{}) string {
	if op.IsNullCheck() || value == nil {
		return fmt.Sprintf("%s %s", field, op)
	}
	return fmt.Sprintf("%s %s %s", field, op, formatValue(value))
}

func formatValue(value interface{}) string {
	if s, ok := value.(string); ok {
		return quote(s)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Sprint(value)
	}

	items := make([]string, rv.Len())
	for i := range items {
		item := rv.Index(i).Interface()
		if s, ok := item.(string); ok {
			items[i] = quote(s)
		} else {
			items[i] = fmt.Sprint(item)
		}
	}
	return "(" + strings.Join(items, ",") + ")"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// JoinFilters joins non-empty filter fragments with conn.
func JoinFilters(conn Connector, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " "+string(conn)+" ")
}
