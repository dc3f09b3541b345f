package ui

import "testing"

func TestStatusMessages(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Success("done"), "✓ done"},
		{Successf("%d records", 3), "✓ 3 records"},
		{Error("bad"), "✗ bad"},
		{Warningf("%s missing", "x"), "⚠ x missing"},
		{Infof("note"), "ℹ note"},
		{Count(1, "clause", "clauses"), "(1 clause)"},
		{Count(2, "clause", "clauses"), "(2 clauses)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
