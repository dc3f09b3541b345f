// Package schema holds the entity catalog that filter, expansion and ancestor
// lookups are compiled against.
package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultIDField is the primary key field used when an entity does not declare one.
const DefaultIDField = "id"

// RelationKind is the kind of edge a relation field describes.
type RelationKind int

const (
	HasOne RelationKind = iota
	HasMany
	ManyToMany
	BelongsTo
)

func (k RelationKind) String() string {
	switch k {
	case HasMany:
		return "has_many"
	case ManyToMany:
		return "many_to_many"
	case BelongsTo:
		return "belongs_to"
	default:
		return "has_one"
	}
}

// ParseRelationKind parses the YAML spelling of a relation kind.
func ParseRelationKind(s string) (RelationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "has_one", "hasone":
		return HasOne, nil
	case "has_many", "hasmany":
		return HasMany, nil
	case "many_to_many", "manytomany":
		return ManyToMany, nil
	case "belongs_to", "belongsto":
		return BelongsTo, nil
	default:
		return 0, fmt.Errorf("unknown relation kind %q (expected has_one, has_many, many_to_many or belongs_to)", s)
	}
}

// IsSingular reports whether the relation resolves to at most one record.
func (k RelationKind) IsSingular() bool {
	return k == HasOne || k == BelongsTo
}

// UnmarshalYAML accepts the relation kind as a string.
func (k *RelationKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	kind, err := ParseRelationKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = kind
	return nil
}

// MarshalYAML writes the relation kind as a string.
func (k RelationKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// MarshalText writes the relation kind as a string for JSON output.
func (k RelationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Pivot describes the join entity used by a many-to-many relation.
type Pivot struct {
	Entity      string `yaml:"entity" json:"entity"`
	LocalField  string `yaml:"local" json:"local"`   // pivot field pointing back at the owner
	TargetField string `yaml:"target" json:"target"` // pivot field pointing at the related entity
}

// RelationDescriptor describes a relation field.
//
// Target holds the related entity's name rather than a reference to it, so
// entities can refer to each other in any declaration order. Catalog.Target
// resolves it.
type RelationDescriptor struct {
	Kind        RelationKind `yaml:"kind" json:"kind"`
	Target      string       `yaml:"target" json:"target"`
	LocalField  string       `yaml:"local" json:"local"`
	TargetField string       `yaml:"target_field" json:"target_field"`
	Pivot       *Pivot       `yaml:"through,omitempty" json:"through,omitempty"`
}

// FieldSchema holds the options declared for a single field.
type FieldSchema struct {
	Name     string              `yaml:"-"`
	Relation *RelationDescriptor `yaml:"relation,omitempty"`
	Default  Default             `yaml:"-"`
	Privacy  Privacy             `yaml:"-"`
	System   bool                `yaml:"system,omitempty"`
	Required bool                `yaml:"required,omitempty"`
	Unique   bool                `yaml:"unique,omitempty"`
}

// IsRelation reports whether the field is a relation rather than a stored column.
func (f *FieldSchema) IsRelation() bool {
	return f != nil && f.Relation != nil
}

// IndexField is one column of an index definition.
type IndexField struct {
	Name  string
	Order int // 1 ascending, -1 descending
}

// IndexDefinition is a declared (possibly composite) index.
type IndexDefinition struct {
	Fields []IndexField
	Unique bool
}

// FieldNames returns the index's field names in declaration order.
func (d IndexDefinition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// EntityType is a registered record kind.
type EntityType struct {
	Name        string
	Collection  string
	IDField     string
	KeyField    string
	OwnerField  string
	Timestamped bool
	Fields      *Fields
	Indexes     []IndexDefinition
}

// Field returns the named field, or nil if it is not declared.
func (e *EntityType) Field(name string) *FieldSchema {
	if e == nil || e.Fields == nil {
		return nil
	}
	return e.Fields.Get(name)
}

// Relation returns the relation declared under name, or nil if name is not a relation.
func (e *EntityType) Relation(name string) *RelationDescriptor {
	f := e.Field(name)
	if f == nil {
		return nil
	}
	return f.Relation
}

// FirstRelation returns the first declared relation of the given kind and its field name.
func (e *EntityType) FirstRelation(kind RelationKind) (string, *RelationDescriptor, bool) {
	if e == nil || e.Fields == nil {
		return "", nil, false
	}
	for _, f := range e.Fields.All() {
		if f.Relation != nil && f.Relation.Kind == kind {
			return f.Name, f.Relation, true
		}
	}
	return "", nil, false
}

// Returning lists the non-relational fields in declaration order.
func (e *EntityType) Returning() []string {
	var out []string
	for _, f := range e.Fields.All() {
		if !f.IsRelation() {
			out = append(out, f.Name)
		}
	}
	return out
}

// RelationNames lists the relation fields in declaration order.
func (e *EntityType) RelationNames() []string {
	var out []string
	for _, f := range e.Fields.All() {
		if f.IsRelation() {
			out = append(out, f.Name)
		}
	}
	return out
}
