package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/testutil"
)

func TestFindAncestorPath(t *testing.T) {
	cat := testutil.BlogCatalog(t)

	tests := []struct {
		name   string
		entity string
		pred   Predicate
		want   []string
		wantOK bool
	}{
		{"comment to user", "comment", IsEntity("user"), []string{"post", "user"}, true},
		{"comment to post", "comment", IsEntity("post"), []string{"post"}, true},
		{"post to owner", "post", HasOwnerField(), []string{"user"}, true},
		{"self match", "user", IsEntity("user"), []string{}, true},
		{"no belongs_to", "tag", IsEntity("user"), nil, false},
		{"unknown entity", "bogus", IsEntity("user"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindAncestorPath(cat, tt.entity, tt.pred)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindAncestorPathCycle(t *testing.T) {
	cat := testutil.MustParse(t, testutil.CycleSchema)

	if path, ok := FindAncestorPath(cat, "a", HasOwnerField()); ok {
		t.Fatalf("expected not found, got %v", path)
	}
	if path, ok := FindAncestorPath(cat, "a", IsEntity("b")); !ok || len(path) != 1 || path[0] != "b" {
		t.Fatalf("expected [b], got %v (ok=%v)", path, ok)
	}
}

type fakeFetcher struct {
	calls  int
	table  string
	id     string
	expand query.Expansions
	record map[string]interface{}
	err    error
}

func (f *fakeFetcher) FindByID(_ context.Context, table, id string, expand query.Expansions) (map[string]interface{}, error) {
	f.calls++
	f.table, f.id, f.expand = table, id, expand
	return f.record, f.err
}

func TestFindAncestor(t *testing.T) {
	cat := testutil.BlogCatalog(t)
	ctx := context.Background()

	t.Run("walks the chain after one fetch", func(t *testing.T) {
		user := map[string]interface{}{"id": "u1", "name": "Greg"}
		f := &fakeFetcher{record: map[string]interface{}{
			"id":   "c1",
			"post": map[string]interface{}{"id": "p1", "user": user},
		}}

		got, ok, err := New(cat, f).FindAncestor(ctx, "comment", "c1", IsEntity("user"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected ancestor to be found")
		}
		if diff := cmp.Diff(user, got); diff != "" {
			t.Errorf("ancestor mismatch (-want +got):\n%s", diff)
		}
		if f.calls != 1 {
			t.Errorf("expected 1 fetch, got %d", f.calls)
		}
		if f.table != "comments" || f.id != "c1" {
			t.Errorf("fetched %s/%s, want comments/c1", f.table, f.id)
		}
		post, ok := f.expand["post"]
		if !ok {
			t.Fatalf("expected post expansion, got %v", f.expand)
		}
		if _, ok := post.Expand["user"]; !ok {
			t.Errorf("expected nested user expansion, got %v", post.Expand)
		}
	})

	t.Run("missing link", func(t *testing.T) {
		f := &fakeFetcher{record: map[string]interface{}{
			"id":   "c3",
			"post": map[string]interface{}{"id": "p2", "user": nil},
		}}
		got, ok, err := New(cat, f).FindAncestor(ctx, "comment", "c3", IsEntity("user"))
		if err != nil || ok || got != nil {
			t.Fatalf("expected not found, got %v, %v, %v", got, ok, err)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		f := &fakeFetcher{}
		_, ok, err := New(cat, f).FindAncestor(ctx, "comment", "nope", IsEntity("user"))
		if err != nil || ok {
			t.Fatalf("expected not found, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("no path skips the fetch", func(t *testing.T) {
		f := &fakeFetcher{}
		_, ok, err := New(cat, f).FindAncestor(ctx, "tag", "t1", IsEntity("user"))
		if err != nil || ok {
			t.Fatalf("expected not found, got ok=%v err=%v", ok, err)
		}
		if f.calls != 0 {
			t.Errorf("expected no fetch, got %d", f.calls)
		}
	})

	t.Run("fetch error", func(t *testing.T) {
		boom := errors.New("boom")
		f := &fakeFetcher{err: boom}
		_, _, err := New(cat, f).FindAncestor(ctx, "comment", "c1", IsEntity("user"))
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped fetch error, got %v", err)
		}
	})
}
