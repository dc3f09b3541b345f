package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/testutil"
)

func TestParseSort(t *testing.T) {
	cat := testutil.BlogCatalog(t)

	tests := []struct {
		name string
		sort string
		want []query.SortSpec
	}{
		{"default", "", []query.SortSpec{{Field: "id", JSONPath: []string{}, Direction: query.Asc}}},
		{"single", "age", []query.SortSpec{{Field: "age", JSONPath: []string{}, Direction: query.Asc}}},
		{
			"several with directions",
			"age DESC, name",
			[]query.SortSpec{
				{Field: "age", JSONPath: []string{}, Direction: query.Desc},
				{Field: "name", JSONPath: []string{}, Direction: query.Asc},
			},
		},
		{"case-insensitive direction", "name desc", []query.SortSpec{{Field: "name", JSONPath: []string{}, Direction: query.Desc}}},
		{"json path", "profile.address.city asc", []query.SortSpec{{Field: "profile", JSONPath: []string{"address", "city"}, Direction: query.Asc}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := query.ParseSort(cat, "user", tt.sort)
			if err != nil {
				t.Fatalf("ParseSort(%q): %v", tt.sort, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseSort(%q) mismatch (-want +got):\n%s", tt.sort, diff)
			}
		})
	}
}

func TestParseSortErrors(t *testing.T) {
	cat := testutil.BlogCatalog(t)

	tests := []struct {
		sort string
		kind query.Kind
	}{
		{"bogus", query.KindInvalidSortField},
		{"posts", query.KindInvalidSortField},
		{"age,", query.KindInvalidSortField},
		{"profile..x", query.KindInvalidSortField},
		{"age sideways", query.KindInvalidSortDirection},
		{"age ASC NULLS", query.KindInvalidSortDirection},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			got, err := query.ParseSort(cat, "user", tt.sort)
			if err == nil {
				t.Fatalf("ParseSort(%q) = %+v, want error", tt.sort, got)
			}
			if kind, _ := query.KindOf(err); kind != tt.kind {
				t.Errorf("kind = %q, want %q (err: %v)", kind, tt.kind, err)
			}
		})
	}

	if _, err := query.ParseSort(cat, "widget", ""); !errorsIsKind(err, query.KindUnknownEntity) {
		t.Errorf("unknown entity err = %v", err)
	}
}

func errorsIsKind(err error, kind query.Kind) bool {
	k, ok := query.KindOf(err)
	return ok && k == kind
}
