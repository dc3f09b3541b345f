package schema

import (
	"errors"
	"fmt"
)

// ValidationError describes a catalog integrity problem.
type ValidationError struct {
	Entity  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Entity != "" && e.Field != "":
		return fmt.Sprintf("entity '%s' field '%s': %s", e.Entity, e.Field, e.Message)
	case e.Entity != "":
		return fmt.Sprintf("entity '%s': %s", e.Entity, e.Message)
	default:
		return e.Message
	}
}

func joinValidationErrors(errs []*ValidationError) error {
	if len(errs) == 1 {
		return errs[0]
	}
	wrapped := make([]error, len(errs))
	for i, err := range errs {
		wrapped[i] = err
	}
	return errors.Join(wrapped...)
}

// validate checks every relation against the registered entities.
func (c *Catalog) validate() []*ValidationError {
	var errs []*ValidationError
	for _, name := range c.order {
		e := c.entities[name]
		for _, f := range e.Fields.All() {
			if f.Relation == nil {
				continue
			}
			errs = append(errs, c.validateRelation(e, f)...)
		}
		for i, idx := range e.Indexes {
			if len(idx.Fields) == 0 {
				errs = append(errs, &ValidationError{Entity: e.Name, Message: fmt.Sprintf("index %d has no fields", i)})
			}
			for _, col := range idx.Fields {
				if !e.Fields.Has(col.Name) {
					errs = append(errs, &ValidationError{Entity: e.Name, Field: col.Name, Message: fmt.Sprintf("index %d references an undeclared field", i)})
				}
			}
		}
	}
	return errs
}

func (c *Catalog) validateRelation(owner *EntityType, f *FieldSchema) []*ValidationError {
	var errs []*ValidationError
	rel := f.Relation
	fail := func(format string, args ...interface{}) {
		errs = append(errs, &ValidationError{Entity: owner.Name, Field: f.Name, Message: fmt.Sprintf(format, args...)})
	}

	target, ok := c.entities[rel.Target]
	if !ok {
		fail("relation target '%s' is not a registered entity", rel.Target)
		return errs
	}

	if rel.LocalField == "" {
		fail("relation is missing its local field")
	} else if local := owner.Field(rel.LocalField); local == nil || local.IsRelation() {
		fail("local field '%s' is not a stored field of '%s'", rel.LocalField, owner.Name)
	}

	if rel.TargetField == "" {
		fail("relation is missing its target field")
	} else if tf := target.Field(rel.TargetField); tf == nil || tf.IsRelation() {
		fail("target field '%s' is not a stored field of '%s'", rel.TargetField, target.Name)
	}

	switch {
	case rel.Kind == ManyToMany && rel.Pivot == nil:
		fail("many_to_many relation requires a 'through' pivot")
	case rel.Kind != ManyToMany && rel.Pivot != nil:
		fail("only many_to_many relations may declare a 'through' pivot")
	case rel.Pivot != nil:
		pivot, ok := c.entities[rel.Pivot.Entity]
		if !ok {
			fail("pivot entity '%s' is not a registered entity", rel.Pivot.Entity)
			break
		}
		for _, col := range []string{rel.Pivot.LocalField, rel.Pivot.TargetField} {
			if col == "" || !pivot.Fields.Has(col) {
				fail("pivot field '%s' is not declared on '%s'", col, pivot.Name)
			}
		}
	}
	return errs
}
