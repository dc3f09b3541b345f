// Package resolver finds ancestors of an entity by walking BelongsTo relations.
package resolver

import (
	"context"
	"fmt"

	"github.com/aidanlsb/sift/internal/logging"
	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/schema"
)

// Predicate selects the ancestor entity type to stop at.
type Predicate func(*schema.EntityType) bool

// IsEntity matches the entity type with the given name.
func IsEntity(name string) Predicate {
	return func(e *schema.EntityType) bool { return e.Name == name }
}

// HasOwnerField matches the first entity type that declares an owner field.
func HasOwnerField() Predicate {
	return func(e *schema.EntityType) bool { return e.OwnerField != "" }
}

// FindAncestorPath returns the relation names leading from entity to the
// nearest ancestor satisfying pred, following the first declared BelongsTo
// relation at each step. The path is empty when entity itself matches. It
// returns false when the chain ends, or loops back on itself, before a match.
func FindAncestorPath(cat *schema.Catalog, entity string, pred Predicate) ([]string, bool) {
	current, ok := cat.Entity(entity)
	if !ok {
		return nil, false
	}

	path := []string{}
	visited := make(map[string]bool)
	for {
		if pred(current) {
			return path, true
		}
		visited[current.Name] = true

		name, rel, ok := current.FirstRelation(schema.BelongsTo)
		if !ok {
			return nil, false
		}
		next, err := cat.Target(rel)
		if err != nil {
			return nil, false
		}
		if visited[next.Name] {
			return nil, false
		}
		path = append(path, name)
		current = next
	}
}

// Fetcher loads one record by id with the given expansions applied. It
// returns a nil record when nothing matches.
type Fetcher interface {
	FindByID(ctx context.Context, table, id string, expand query.Expansions) (map[string]interface{}, error)
}

// Resolver resolves ancestor instances with a single backend fetch.
type Resolver struct {
	catalog *schema.Catalog
	fetcher Fetcher
}

// New creates a resolver.
func New(cat *schema.Catalog, fetcher Fetcher) *Resolver {
	return &Resolver{catalog: cat, fetcher: fetcher}
}

// Path is FindAncestorPath over the resolver's catalog.
func (r *Resolver) Path(entity string, pred Predicate) ([]string, bool) {
	return FindAncestorPath(r.catalog, entity, pred)
}

// FindAncestor fetches the record entity/id with its ancestor chain expanded
// and returns the ancestor matching pred. It returns (nil, false, nil) when
// no ancestor type matches, the record does not exist, or a link in the
// chain is empty.
func (r *Resolver) FindAncestor(ctx context.Context, entity, id string, pred Predicate) (map[string]interface{}, bool, error) {
	path, ok := r.Path(entity, pred)
	if !ok {
		return nil, false, nil
	}

	e, _ := r.catalog.Entity(entity)
	expandStr := query.ExpansionString(path)
	expand, err := query.ParseExpand(r.catalog, entity, expandStr)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build ancestor expansion %q: %w", expandStr, err)
	}

	record, err := r.fetcher.FindByID(ctx, e.Collection, id, expand)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch %s %s: %w", entity, id, err)
	}
	logging.Debug().
		Str("entity", entity).
		Str("id", id).
		Str("expand", expandStr).
		Bool("found", record != nil).
		Msg("fetched ancestor chain")
	if record == nil {
		return nil, false, nil
	}

	ancestor := walk(record, path)
	return ancestor, ancestor != nil, nil
}

// walk follows one field per path segment through nested records.
func walk(record map[string]interface{}, path []string) map[string]interface{} {
	current := record
	for _, seg := range path {
		next, ok := current[seg].(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
