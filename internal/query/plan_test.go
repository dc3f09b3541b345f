package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/testutil"
)

func TestLimitsResolve(t *testing.T) {
	l := query.Limits{Default: 12, Max: 100}

	tests := []struct {
		name      string
		requested int
		override  bool
		want      int
	}{
		{"unset", 0, false, 12},
		{"negative", -5, false, 12},
		{"within", 40, false, 40},
		{"at max", 100, false, 100},
		{"capped", 500, false, 100},
		{"override", 500, true, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Resolve(tt.requested, tt.override); got != tt.want {
				t.Errorf("Resolve(%d, %v) = %d, want %d", tt.requested, tt.override, got, tt.want)
			}
		})
	}
}

func TestNewCompilerDefaults(t *testing.T) {
	c := query.NewCompiler(testutil.BlogCatalog(t), query.Limits{})
	if diff := cmp.Diff(query.DefaultLimits, c.Limits()); diff != "" {
		t.Errorf("limits mismatch (-want +got):\n%s", diff)
	}

	c = query.NewCompiler(nil, query.Limits{Default: 5})
	if got := c.Limits(); got.Default != 5 || got.Max != query.DefaultLimits.Max {
		t.Errorf("limits = %+v, want default 5 with the default max", got)
	}

	c = query.NewCompiler(nil, query.Limits{Default: 200})
	want := query.Limits{Default: query.DefaultLimits.Max, Max: query.DefaultLimits.Max}
	if diff := cmp.Diff(want, c.Limits()); diff != "" {
		t.Errorf("default above the max must be clamped (-want +got):\n%s", diff)
	}
	if got := c.Limits().Resolve(0, false); got != query.DefaultLimits.Max {
		t.Errorf("Resolve(0, false) = %d, want %d", got, query.DefaultLimits.Max)
	}
}

func TestCompile(t *testing.T) {
	cat := testutil.BlogCatalog(t)
	c := query.NewCompiler(cat, query.Limits{Default: 10, Max: 50})

	plan, err := c.Compile("post", query.Request{
		Filter: "title LIKE 'H%' AND user.city = 'NYC'",
		Expand: "user,tags",
		Sort:   "title DESC",
		Cursor: "p1",
		Limit:  80,
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if plan.Entity != "post" || plan.Table != "posts" {
		t.Errorf("entity/table = %s/%s", plan.Entity, plan.Table)
	}
	if len(plan.Where) != 2 || plan.Where[1].Relation != "user" {
		t.Errorf("where = %+v", plan.Where)
	}
	if len(plan.Expand) != 2 {
		t.Errorf("expand = %+v", plan.Expand)
	}
	wantOrder := []query.SortSpec{{Field: "title", JSONPath: []string{}, Direction: query.Desc}}
	if diff := cmp.Diff(wantOrder, plan.Order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&query.Page{Field: "id", Cursor: "p1"}, plan.Page); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}
	if plan.Limit != 50 {
		t.Errorf("limit = %d, want capped 50", plan.Limit)
	}
	wantReturning := []string{"id", "title", "body", "userId", "metadata"}
	if diff := cmp.Diff(wantReturning, plan.Returning); diff != "" {
		t.Errorf("returning mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileEmptyRequest(t *testing.T) {
	plan, err := query.NewCompiler(testutil.BlogCatalog(t), query.Limits{}).Compile("tag", query.Request{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(plan.Where) != 0 || len(plan.Expand) != 0 || plan.Page != nil {
		t.Errorf("plan = %+v, want no clauses, expansions or page", plan)
	}
	if plan.Limit != query.DefaultLimits.Default {
		t.Errorf("limit = %d", plan.Limit)
	}
}

func TestCompileAllOrNothing(t *testing.T) {
	c := query.NewCompiler(testutil.BlogCatalog(t), query.Limits{})

	tests := []struct {
		name string
		req  query.Request
		kind query.Kind
	}{
		{"bad filter", query.Request{Filter: "bogus = 1", Expand: "user"}, query.KindInvalidField},
		{"bad expand", query.Request{Filter: "title = 'x'", Expand: "author"}, query.KindInvalidExpansion},
		{"bad sort", query.Request{Expand: "user", Sort: "title UP"}, query.KindInvalidSortDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := c.Compile("post", tt.req)
			if plan != nil {
				t.Errorf("plan = %+v, want nil", plan)
			}
			if !errorsIsKind(err, tt.kind) {
				t.Errorf("err = %v, want kind %s", err, tt.kind)
			}
		})
	}

	if _, err := c.Compile("widget", query.Request{}); !errorsIsKind(err, query.KindUnknownEntity) {
		t.Errorf("unknown entity err = %v", err)
	}
}

func TestCursorPage(t *testing.T) {
	user, _ := testutil.BlogCatalog(t).Entity("user")
	if query.CursorPage(user, "") != nil {
		t.Error("empty cursor should give no page")
	}
	if p := query.CursorPage(user, "u9"); p == nil || p.Field != "id" || p.Cursor != "u9" {
		t.Errorf("page = %+v", p)
	}
}
