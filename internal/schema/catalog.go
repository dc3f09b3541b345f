package schema

import (
	"fmt"
	"sort"
)

// Catalog is the immutable set of entity types known to the process. Build it
// once at startup and pass it to every parser and resolver; it is safe for
// concurrent readers.
type Catalog struct {
	entities map[string]*EntityType
	order    []string
}

// NewCatalog validates and indexes the given entity types.
//
// Missing Collection and IDField values are filled in, the id field is
// declared if absent, and timestamped entities get createdAt/updatedAt.
// Relation targets are checked only after every entity is registered, so
// declaration order does not matter.
func NewCatalog(entities ...*EntityType) (*Catalog, error) {
	c := &Catalog{entities: make(map[string]*EntityType, len(entities))}

	for _, e := range entities {
		if e == nil || e.Name == "" {
			return nil, &ValidationError{Message: "entity name is required"}
		}
		if _, dup := c.entities[e.Name]; dup {
			return nil, &ValidationError{Entity: e.Name, Message: "declared more than once"}
		}
		normalize(e)
		c.entities[e.Name] = e
		c.order = append(c.order, e.Name)
	}

	if errs := c.validate(); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}
	return c, nil
}

// MustCatalog is NewCatalog for fixtures; it panics on error.
func MustCatalog(entities ...*EntityType) *Catalog {
	c, err := NewCatalog(entities...)
	if err != nil {
		panic(err)
	}
	return c
}

func normalize(e *EntityType) {
	if e.Collection == "" {
		e.Collection = e.Name
	}
	if e.IDField == "" {
		e.IDField = DefaultIDField
	}
	if e.Fields == nil {
		e.Fields = NewFields()
	}
	if !e.Fields.Has(e.IDField) {
		// The id field always leads.
		fields := append([]*FieldSchema{{Name: e.IDField, Required: true, Unique: true}}, e.Fields.All()...)
		e.Fields = NewFields(fields...)
	}
	if e.Timestamped {
		for _, name := range []string{"createdAt", "updatedAt"} {
			if !e.Fields.Has(name) {
				e.Fields.add(&FieldSchema{Name: name, System: true})
			}
		}
	}
}

// Entity returns the named entity type.
func (c *Catalog) Entity(name string) (*EntityType, bool) {
	if c == nil {
		return nil, false
	}
	e, ok := c.entities[name]
	return e, ok
}

// Names returns entity names in registration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// SortedNames returns entity names alphabetically.
func (c *Catalog) SortedNames() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}

// Target resolves a relation's target entity type.
func (c *Catalog) Target(rel *RelationDescriptor) (*EntityType, error) {
	if rel == nil {
		return nil, fmt.Errorf("not a relation")
	}
	e, ok := c.Entity(rel.Target)
	if !ok {
		return nil, fmt.Errorf("relation target '%s' is not a registered entity", rel.Target)
	}
	return e, nil
}

// PivotEntity resolves a many-to-many relation's join entity type.
func (c *Catalog) PivotEntity(rel *RelationDescriptor) (*EntityType, bool) {
	if rel == nil || rel.Pivot == nil {
		return nil, false
	}
	return c.Entity(rel.Pivot.Entity)
}

// ByCollection returns the entity type stored in the named collection.
func (c *Catalog) ByCollection(collection string) (*EntityType, bool) {
	if c == nil {
		return nil, false
	}
	for _, name := range c.order {
		if e := c.entities[name]; e.Collection == collection {
			return e, true
		}
	}
	return nil, false
}
