package cli

import (
	"strings"
	"testing"

	"github.com/aidanlsb/sift/internal/testutil"
)

func TestSchemaList(t *testing.T) {
	env := newCLIEnv(t)

	resp := env.runJSON(t, "schema")
	entities := dataMap(t, resp)["entities"].([]interface{})
	if len(entities) != 5 {
		t.Fatalf("got %d entities, want 5", len(entities))
	}
	first := entities[0].(map[string]interface{})
	if first["name"] != "user" || first["collection"] != "users" {
		t.Errorf("first entity = %#v, want user in declaration order", first)
	}
}

func TestSchemaEntity(t *testing.T) {
	env := newCLIEnv(t)

	detail := dataMap(t, env.runJSON(t, "schema", "post"))
	fields := detail["field_details"].([]interface{})
	var tags map[string]interface{}
	for _, f := range fields {
		if m := f.(map[string]interface{}); m["name"] == "tags" {
			tags = m
		}
	}
	if tags == nil {
		t.Fatal("tags field missing")
	}
	rel := tags["relation"].(map[string]interface{})
	if rel["kind"] != "many_to_many" || rel["target"] != "tag" {
		t.Errorf("tags relation = %#v", rel)
	}

	out, err := env.run(t, "schema", "user")
	if err != nil {
		t.Fatalf("schema user: %v", err)
	}
	for _, want := range []string{"email", "private", "unique index"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	expectErrorCode(t, env.runJSON(t, "schema", "widget"), ErrEntityNotFound)
}

func TestSchemaCheck(t *testing.T) {
	env := newCLIEnv(t)

	resp := env.runJSON(t, "schema", "check")
	if !resp.OK || dataMap(t, resp)["valid"] != true {
		t.Fatalf("check = %+v", resp)
	}

	env.schema = testutil.WriteFile(t, env.dir, "broken.yaml", `entities:
  post:
    fields:
      user:
        relation:
          kind: belongs_to
          target: ghost
`)
	expectErrorCode(t, env.runJSON(t, "schema", "check"), ErrSchemaInvalid)
	expectErrorCode(t, env.runJSON(t, "filter", "post", "id = 1"), ErrSchemaInvalid)
}

func TestSchemaNotFound(t *testing.T) {
	env := newCLIEnv(t)
	env.schema = env.dir + "/missing.yaml"

	expectErrorCode(t, env.runJSON(t, "filter", "user", "age > 1"), ErrSchemaNotFound)
}

func TestSchemaConflict(t *testing.T) {
	env := newCLIEnv(t)

	resp := env.runJSON(t, "schema", "conflict", "post", "title, userId")
	if !resp.OK {
		t.Fatalf("conflict failed: %+v", resp.Error)
	}
	idx := dataMap(t, resp)
	if idx["unique"] != true {
		t.Errorf("index = %#v, want the unique userId/title index", idx)
	}
	if fields := idx["fields"].([]interface{}); len(fields) != 2 || fields[0] != "userId" {
		t.Errorf("fields = %#v, want declaration order", fields)
	}

	expectErrorCode(t, env.runJSON(t, "schema", "conflict", "post", "title"), ErrInvalidInput)
}
