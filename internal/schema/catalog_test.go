package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewCatalogNormalizes(t *testing.T) {
	post := &EntityType{
		Name:        "post",
		Timestamped: true,
		Fields:      NewFields(&FieldSchema{Name: "title"}),
	}
	cat, err := NewCatalog(post)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	want := []string{"id", "title", "createdAt", "updatedAt"}
	if diff := cmp.Diff(want, post.Fields.Names()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if !post.Field("createdAt").System {
		t.Error("createdAt should be a system field")
	}
	if e, ok := cat.ByCollection("post"); !ok || e != post {
		t.Errorf("ByCollection = %v, %v", e, ok)
	}
}

func TestNewCatalogRejects(t *testing.T) {
	if _, err := NewCatalog(&EntityType{}); err == nil {
		t.Error("expected error for unnamed entity")
	}
	if _, err := NewCatalog(&EntityType{Name: "a"}, &EntityType{Name: "a"}); err == nil {
		t.Error("expected error for duplicate entity")
	}
}

func TestCatalogLookups(t *testing.T) {
	tag := &EntityType{Name: "tag", Collection: "tags"}
	postTag := &EntityType{Name: "post_tag", Collection: "post_tags", Fields: NewFields(
		&FieldSchema{Name: "postId"},
		&FieldSchema{Name: "tagId"},
	)}
	post := &EntityType{Name: "post", Fields: NewFields(&FieldSchema{
		Name: "tags",
		Relation: &RelationDescriptor{
			Kind: ManyToMany, Target: "tag", LocalField: "id", TargetField: "id",
			Pivot: &Pivot{Entity: "post_tag", LocalField: "postId", TargetField: "tagId"},
		},
	})}
	cat := MustCatalog(post, tag, postTag)

	if diff := cmp.Diff([]string{"post", "post_tag", "tag"}, cat.SortedNames()); diff != "" {
		t.Errorf("SortedNames mismatch (-want +got):\n%s", diff)
	}

	rel := post.Relation("tags")
	target, err := cat.Target(rel)
	if err != nil || target != tag {
		t.Errorf("Target = %v, %v", target, err)
	}
	pivot, ok := cat.PivotEntity(rel)
	if !ok || pivot.Collection != "post_tags" {
		t.Errorf("PivotEntity = %v, %v", pivot, ok)
	}
	if _, err := cat.Target(&RelationDescriptor{Target: "ghost"}); err == nil {
		t.Error("expected error for unknown target")
	}
	if _, ok := cat.Entity("ghost"); ok {
		t.Error("unexpected entity ghost")
	}

	var nilCat *Catalog
	if _, ok := nilCat.Entity("post"); ok {
		t.Error("nil catalog should have no entities")
	}
}

func TestRelationKind(t *testing.T) {
	for _, k := range []RelationKind{HasOne, HasMany, ManyToMany, BelongsTo} {
		parsed, err := ParseRelationKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseRelationKind(%q) = %v, %v", k.String(), parsed, err)
		}
	}
	if k, err := ParseRelationKind(" BelongsTo "); err != nil || k != BelongsTo {
		t.Errorf("ParseRelationKind(BelongsTo) = %v, %v", k, err)
	}
	if _, err := ParseRelationKind("owns"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if !BelongsTo.IsSingular() || HasMany.IsSingular() || ManyToMany.IsSingular() {
		t.Error("IsSingular mismatch")
	}
}

func TestFieldsKeepPositionOnReplace(t *testing.T) {
	fs := NewFields(&FieldSchema{Name: "a"}, &FieldSchema{Name: "b"}, &FieldSchema{Name: "a", Required: true})
	if diff := cmp.Diff([]string{"a", "b"}, fs.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if !fs.Get("a").Required || fs.Len() != 2 {
		t.Error("later duplicate should replace the earlier field")
	}

	var nilFields *Fields
	if nilFields.Len() != 0 || nilFields.Has("a") || nilFields.Names() != nil {
		t.Error("nil Fields should be empty")
	}
}
