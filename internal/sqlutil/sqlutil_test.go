package sqlutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInClauseArgs(t *testing.T) {
	ph, args := InClauseArgs([]string{"a", "b", "c"})
	if ph != "?, ?, ?" {
		t.Errorf("placeholders = %q", ph)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	ph, args = InClauseArgs([]int(nil))
	if ph != "NULL" || args != nil {
		t.Errorf("empty = %q, %v; want NULL and no args", ph, args)
	}
}

func TestJSONPath(t *testing.T) {
	tests := map[string]string{
		"userId": `$."userId"`,
		"a.b":    `$."a.b"`,
		`we"ird`: `$."we\"ird"`,
	}
	for field, want := range tests {
		if got := JSONPath(field); got != want {
			t.Errorf("JSONPath(%q) = %q, want %q", field, got, want)
		}
	}
}
