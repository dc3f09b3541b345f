// Package testutil provides shared catalogs and file helpers for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/sift/internal/schema"
)

// BlogSchema is a small catalog covering every relation kind: comment
// belongs to post, post belongs to user, post has many comments, and post
// reaches tag through the post_tag pivot.
const BlogSchema = `entities:
  user:
    collection: users
    owner_field: id
    timestamped: true
    fields:
      name:
        required: true
      email:
        private: true
        unique: true
      age:
      city:
      profile:
      role:
        default: member
      posts:
        relation:
          kind: has_many
          target: post
          local: id
          target_field: userId
    indexes:
      - fields: [email]
        unique: true
  post:
    collection: posts
    fields:
      title:
      body:
      userId:
      metadata:
      user:
        relation:
          kind: belongs_to
          target: user
          local: userId
          target_field: id
      comments:
        relation:
          kind: has_many
          target: comment
          local: id
          target_field: postId
      tags:
        relation:
          kind: many_to_many
          target: tag
          local: id
          target_field: id
          through:
            entity: post_tag
            local: postId
            target: tagId
    indexes:
      - fields:
          userId: 1
          title: -1
        unique: true
  comment:
    collection: comments
    fields:
      body:
      postId:
      post:
        relation:
          kind: belongs_to
          target: post
          local: postId
          target_field: id
  tag:
    collection: tags
    fields:
      label:
  post_tag:
    collection: post_tags
    fields:
      postId:
      tagId:
`

// CycleSchema links a and b through BelongsTo in both directions and
// declares no owner field anywhere.
const CycleSchema = `entities:
  a:
    fields:
      bId:
      b:
        relation:
          kind: belongs_to
          target: b
          local: bId
          target_field: id
  b:
    fields:
      aId:
      a:
        relation:
          kind: belongs_to
          target: a
          local: aId
          target_field: id
`

// BlogFixture holds records for BlogSchema keyed by entity name.
const BlogFixture = `user:
  - id: u1
    name: Greg
    email: greg@example.com
    age: 31
    city: NYC
  - id: u2
    name: Lou
    email: lou@example.com
    age: 24
post:
  - id: p1
    title: Hello
    userId: u1
    metadata:
      lang: en
  - id: p2
    title: Orphan
comment:
  - id: c1
    body: First
    postId: p1
  - id: c2
    body: Second
    postId: p1
  - id: c3
    body: Lost
    postId: p2
tag:
  - id: t1
    label: go
  - id: t2
    label: sql
post_tag:
  - id: pt1
    postId: p1
    tagId: t1
  - id: pt2
    postId: p1
    tagId: t2
`

// MustParse parses a catalog or fails the test.
func MustParse(t testing.TB, yaml string, opts ...schema.Option) *schema.Catalog {
	t.Helper()
	cat, err := schema.Parse([]byte(yaml), opts...)
	if err != nil {
		t.Fatalf("failed to parse catalog: %v", err)
	}
	return cat
}

// BlogCatalog returns a fresh catalog built from BlogSchema.
func BlogCatalog(t testing.TB) *schema.Catalog {
	t.Helper()
	return MustParse(t, BlogSchema)
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
