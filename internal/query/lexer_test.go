package query

import "testing"

func TestMatchOperator(t *testing.T) {
	tests := []struct {
		head   string
		op     Operator
		pos    int
		wantOK bool
	}{
		{"age > ", OpGt, 4, true},
		{"age >= ", OpGte, 4, true},
		{"name NOT LIKE ", OpNotLike, 5, true},
		{"name LIKE ", OpLike, 5, true},
		{"email IS NOT NULL", OpIsNotNull, 6, true},
		{"INDEX = ", OpEq, 6, true},
		{"city NOT IN (", OpNotIn, 5, true},
		{"LIKES = ", OpEq, 6, true},
		{"name = x NOT LIKE y", OpNotLike, 9, true},
		{"name NOT LIKE a = b", OpNotLike, 5, true},
		{"a IN b IS NULL", OpIsNull, 7, true},
		{"age>", "", 0, false},
		{"name", "", 0, false},
	}
	for _, tt := range tests {
		op, pos, ok := matchOperator(tt.head)
		if ok != tt.wantOK || (ok && (op != tt.op || pos != tt.pos)) {
			t.Errorf("matchOperator(%q) = %q, %d, %v; want %q, %d, %v", tt.head, op, pos, ok, tt.op, tt.pos, tt.wantOK)
		}
	}
}

func TestSkipQuoted(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"'abc' rest", 5},
		{"'it''s'", 7},
		{`'a\'b'`, 6},
		{"'open", -1},
		{"''", 2},
	}
	for _, tt := range tests {
		if got := skipQuoted(tt.s, 0); got != tt.want {
			t.Errorf("skipQuoted(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestConnectorAt(t *testing.T) {
	tests := []struct {
		s    string
		want Connector
	}{
		{"AND x", And},
		{"OR)", Or},
		{"OR", Or},
		{"ORDER", ConnectorNone},
		{"and x", ConnectorNone},
		{"ANDx", ConnectorNone},
	}
	for _, tt := range tests {
		if got := connectorAt(tt.s, 0); got != tt.want {
			t.Errorf("connectorAt(%q) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestEndsWithListOperator(t *testing.T) {
	tests := map[string]bool{
		"name IN ":     true,
		"name NOT IN":  true,
		"name IN":      true,
		"nameIN ":      false,
		"IN":           false,
		"name = 'IN' ": false,
	}
	for text, want := range tests {
		if got := endsWithListOperator(text); got != want {
			t.Errorf("endsWithListOperator(%q) = %v, want %v", text, got, want)
		}
	}
}
