package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const shopSchema = `entities:
  order:
    collection: orders
    owner_field: customerId
    fields:
      total:
      status:
        default: pending
      ref:
        default_func: uuid
      customerId:
      customer:
        relation:
          kind: belongs_to
          target: customer
          local: customerId
          target_field: id
      lines:
        relation:
          kind: has_many
          target: line
          local: id
          target_field: orderId
    indexes:
      - fields: {customerId: 1, total: -1}
        unique: true
  line:
    fields:
      orderId:
      sku:
  customer:
    key_field: email
    fields:
      email:
        private: true
`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(shopSchema))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if diff := cmp.Diff([]string{"order", "line", "customer"}, cat.Names()); diff != "" {
		t.Errorf("entity order mismatch (-want +got):\n%s", diff)
	}

	order, _ := cat.Entity("order")
	wantFields := []string{"id", "total", "status", "ref", "customerId", "customer", "lines"}
	if diff := cmp.Diff(wantFields, order.Fields.Names()); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"customer", "lines"}, order.RelationNames()); diff != "" {
		t.Errorf("relations mismatch (-want +got):\n%s", diff)
	}

	line, _ := cat.Entity("line")
	if line.Collection != "line" || line.IDField != "id" {
		t.Errorf("line defaults = %q/%q, want line/id", line.Collection, line.IDField)
	}

	rel := order.Relation("customer")
	if rel == nil || rel.Kind != BelongsTo || rel.Target != "customer" {
		t.Fatalf("customer relation = %+v", rel)
	}
	if name, _, ok := order.FirstRelation(BelongsTo); !ok || name != "customer" {
		t.Errorf("FirstRelation = %q, %v", name, ok)
	}

	if len(order.Indexes) != 1 {
		t.Fatalf("indexes = %+v", order.Indexes)
	}
	wantIdx := IndexDefinition{Fields: []IndexField{{Name: "customerId", Order: 1}, {Name: "total", Order: -1}}, Unique: true}
	if diff := cmp.Diff(wantIdx, order.Indexes[0]); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}

	customer, _ := cat.Entity("customer")
	if customer.KeyField != "email" || !customer.Field("email").Privacy.Hidden(nil, "x") {
		t.Errorf("customer = %+v", customer)
	}
}

func TestParseEmpty(t *testing.T) {
	cat, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cat.Names()) != 0 {
		t.Errorf("names = %v, want none", cat.Names())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "entities not a mapping",
			yaml:    "entities: [a, b]",
			wantErr: "must be a mapping",
		},
		{
			name: "unknown relation kind",
			yaml: `entities:
  a:
    fields:
      b:
        relation: {kind: owns, target: a, local: id, target_field: id}
`,
			wantErr: "unknown relation kind",
		},
		{
			name: "unknown target",
			yaml: `entities:
  a:
    fields:
      b:
        relation: {kind: belongs_to, target: ghost, local: id, target_field: id}
`,
			wantErr: "'ghost' is not a registered entity",
		},
		{
			name: "missing local field",
			yaml: `entities:
  a:
    fields:
      b:
        relation: {kind: has_one, target: a, local: nope, target_field: id}
`,
			wantErr: "local field 'nope'",
		},
		{
			name: "many_to_many without pivot",
			yaml: `entities:
  a:
    fields:
      b:
        relation: {kind: many_to_many, target: a, local: id, target_field: id}
`,
			wantErr: "requires a 'through' pivot",
		},
		{
			name: "pivot field undeclared",
			yaml: `entities:
  a:
    fields:
      b:
        relation:
          kind: many_to_many
          target: a
          local: id
          target_field: id
          through: {entity: ab, local: aId, target: bId}
  ab:
    fields:
      aId:
`,
			wantErr: "pivot field 'bId'",
		},
		{
			name: "index on undeclared field",
			yaml: `entities:
  a:
    indexes:
      - fields: [missing]
`,
			wantErr: "index 0 references an undeclared field",
		},
		{
			name: "bad index order",
			yaml: `entities:
  a:
    fields:
      x:
    indexes:
      - fields: {x: 2}
`,
			wantErr: "index order must be 1 or -1",
		},
		{
			name: "unknown default_func",
			yaml: `entities:
  a:
    fields:
      x:
        default_func: random
`,
			wantErr: "unknown default_func",
		},
		{
			name: "duplicate field",
			yaml: `entities:
  a:
    fields:
      x:
      x:
`,
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseReportsEveryValidationError(t *testing.T) {
	_, err := Parse([]byte(`entities:
  a:
    fields:
      b:
        relation: {kind: belongs_to, target: ghost, local: id, target_field: id}
      c:
        relation: {kind: belongs_to, target: phantom, local: id, target_field: id}
`))
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"ghost", "phantom"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Entity != "a" {
		t.Errorf("errors.As ValidationError = %+v", ve)
	}
}

func TestParseOptions(t *testing.T) {
	hideZero := PrivacyComputed(func(record map[string]interface{}, value interface{}) bool {
		return value == 0
	})
	cat, err := Parse([]byte(shopSchema),
		WithPrivacy("order", "total", hideZero),
		WithDefault("line", "sku", ConstantDefault("n/a")),
	)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	order, _ := cat.Entity("order")
	if !order.Field("total").Privacy.IsComputed() {
		t.Error("expected computed privacy on order.total")
	}

	if _, err := Parse([]byte(shopSchema), WithPrivacy("order", "nope", hideZero)); err == nil {
		t.Error("expected error for privacy on an unknown field")
	}
	if _, err := Parse([]byte(shopSchema), WithDefault("ghost", "x", ConstantDefault(1))); err == nil {
		t.Error("expected error for default on an unknown entity")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(path, []byte(shopSchema), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := cat.Entity("order"); !ok {
		t.Error("expected order entity")
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
