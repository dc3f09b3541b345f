package query

import (
	"strings"

	"github.com/aidanlsb/sift/internal/schema"
)

// filterParser scans a filter string with a single cursor. Grouped
// sub-expressions recurse on the same cursor instead of re-slicing the input.
type filterParser struct {
	catalog *schema.Catalog
	entity  *schema.EntityType
	input   string
	pos     int
}

// ParseFilter compiles a filter string against entity's schema. Empty input
// yields an empty list.
func ParseFilter(cat *schema.Catalog, entity, filter string) ([]FilterClause, error) {
	e, err := lookupEntity(cat, entity)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(filter) == "" {
		return []FilterClause{}, nil
	}

	p := &filterParser{catalog: cat, entity: e, input: filter}
	clauses, err := p.parseSequence(-1)
	if err != nil {
		return nil, err
	}
	return clauses, nil
}

// parseSequence parses clauses joined by connectors until the end of input
// or, inside a group (open >= 0), until the group's closing paren.
func (p *filterParser) parseSequence(open int) ([]FilterClause, error) {
	var (
		clauses    []FilterClause
		pending    Connector
		connPos    int
		haveClause bool
		segStart   = -1
	)

	// flush compiles the simple clause accumulated since segStart.
	flush := func(end int) error {
		if segStart < 0 {
			return nil
		}
		text := p.input[segStart:end]
		segStart = -1
		clause, err := p.simpleClause(text)
		if err != nil {
			return err
		}
		clause.Connector = pending
		pending = ConnectorNone
		clauses = append(clauses, clause)
		haveClause = true
		return nil
	}

	for p.pos < len(p.input) {
		c := p.input[p.pos]

		switch {
		case c == '\'':
			if segStart < 0 {
				if haveClause {
					return nil, p.missingConnector()
				}
				segStart = p.pos
			}
			// An unclosed quote is an apostrophe inside the value.
			if end := skipQuoted(p.input, p.pos); end > 0 {
				p.pos = end
			} else {
				p.pos++
			}

		case c == '(':
			if segStart >= 0 && endsWithListOperator(p.input[segStart:p.pos]) {
				if err := p.skipList(); err != nil {
					return nil, err
				}
				continue
			}
			if segStart >= 0 {
				return nil, newError(KindInvalidFilterSyntax, "unexpected '(' at position %d", p.pos)
			}
			if haveClause {
				return nil, p.missingConnector()
			}

			groupOpen := p.pos
			p.pos++
			group, err := p.parseSequence(groupOpen)
			if err != nil {
				return nil, err
			}
			if len(group) == 0 {
				return nil, newError(KindInvalidFilterSyntax, "empty group at position %d", groupOpen)
			}

			anchor := group[0]
			anchor.Connector = pending
			anchor.Clauses = append(anchor.Clauses, group[1:]...)
			pending = ConnectorNone
			clauses = append(clauses, anchor)
			haveClause = true

		case c == ')':
			if open < 0 {
				return nil, newError(KindInvalidFilterSyntax, "unmatched ')' at position %d", p.pos)
			}
			if err := flush(p.pos); err != nil {
				return nil, err
			}
			if pending != ConnectorNone {
				return nil, danglingConnector(pending, connPos)
			}
			p.pos++
			return clauses, nil

		case isSpace(c):
			p.pos++

		default:
			if p.atConnectorBoundary() {
				if conn := connectorAt(p.input, p.pos); conn != ConnectorNone {
					if err := flush(p.pos); err != nil {
						return nil, err
					}
					if !haveClause {
						return nil, danglingConnector(conn, p.pos)
					}
					pending, connPos = conn, p.pos
					haveClause = false
					p.pos += len(conn)
					continue
				}
			}
			if segStart < 0 {
				if haveClause {
					return nil, p.missingConnector()
				}
				segStart = p.pos
			}
			p.pos++
		}
	}

	if open >= 0 {
		return nil, newError(KindInvalidFilterSyntax, "unmatched '(' at position %d", open)
	}
	if err := flush(len(p.input)); err != nil {
		return nil, err
	}
	if pending != ConnectorNone {
		return nil, danglingConnector(pending, connPos)
	}
	return clauses, nil
}

// atConnectorBoundary reports whether a connector may start at the cursor:
// at the start of input, or right after whitespace or a closing paren.
func (p *filterParser) atConnectorBoundary() bool {
	if p.pos == 0 {
		return true
	}
	prev := p.input[p.pos-1]
	return isSpace(prev) || prev == ')'
}

// skipList moves the cursor past the parenthesized value list of IN / NOT IN.
func (p *filterParser) skipList() error {
	open := p.pos
	depth := 0
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '\'':
			if end := skipQuoted(p.input, p.pos); end > 0 {
				p.pos = end
				continue
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
		p.pos++
	}
	return newError(KindInvalidFilterSyntax, "unmatched '(' at position %d", open)
}

func (p *filterParser) missingConnector() error {
	return newError(KindInvalidFilterSyntax, "expected AND or OR at position %d", p.pos)
}

func danglingConnector(conn Connector, pos int) error {
	return newError(KindInvalidFilterSyntax, "'%s' at position %d must join two clauses", conn, pos)
}

// simpleClause compiles `path operator value?`.
func (p *filterParser) simpleClause(text string) (FilterClause, error) {
	text = strings.TrimSpace(text)

	head := text[:literalBoundary(text)]
	op, at, ok := matchOperator(head)
	if !ok {
		return FilterClause{}, newError(KindInvalidFilterSyntax, "no valid operator in filter: '%s'", text).
			withSuggestion("Use one of: %s", operatorList())
	}

	clause := FilterClause{Operator: op, JSONPath: []string{}}
	if !op.IsNullCheck() {
		value := strings.TrimSpace(text[at+len(op):])
		if value == "" {
			return FilterClause{}, newError(KindInvalidValue, "missing value in filter: '%s'", text)
		}
		clause.Value = &value
	}

	if err := p.resolvePath(strings.TrimSpace(text[:at]), &clause); err != nil {
		return FilterClause{}, err
	}
	return clause, nil
}

// resolvePath fills Field, Relation and JSONPath. A leading segment naming a
// relation targets a field on the related entity (exactly one more segment);
// otherwise the remaining segments are a JSON path into the field's value.
func (p *filterParser) resolvePath(path string, clause *FilterClause) error {
	if path == "" {
		return newError(KindInvalidField, "missing field name in filter")
	}
	segs := strings.Split(path, ".")
	for _, s := range segs {
		if s == "" {
			return newError(KindInvalidField, "invalid field path: '%s'", path)
		}
	}

	if rel := p.entity.Relation(segs[0]); rel != nil && len(segs) > 1 {
		if len(segs) != 2 {
			return newError(KindInvalidField, "relation filter '%s' must name exactly one field of '%s'", path, segs[0]).
				withSuggestion("Use %s.<field>", segs[0])
		}
		target, err := p.catalog.Target(rel)
		if err != nil {
			return newError(KindInvalidField, "invalid filter: '%s': %s", path, err)
		}
		f := target.Field(segs[1])
		if f == nil || f.IsRelation() {
			return newError(KindInvalidField, "invalid filter: '%s' is not a field of '%s'", segs[1], target.Name).
				withSuggestion("Available fields: %s", strings.Join(target.Returning(), ", "))
		}
		clause.Relation = segs[0]
		clause.Field = segs[1]
		return nil
	}

	f := p.entity.Field(segs[0])
	if f == nil {
		return newError(KindInvalidField, "invalid filter: '%s' is not a field of '%s'", segs[0], p.entity.Name).
			withSuggestion("Available fields: %s", strings.Join(p.entity.Fields.Names(), ", "))
	}
	if f.IsRelation() {
		return newError(KindInvalidField, "invalid filter: '%s' is a relation of '%s'", segs[0], p.entity.Name).
			withSuggestion("Use %s.<field>", segs[0])
	}
	clause.Field = segs[0]
	clause.JSONPath = append(clause.JSONPath, segs[1:]...)
	return nil
}

func operatorList() string {
	names := make([]string, len(Operators))
	for i, op := range Operators {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

func lookupEntity(cat *schema.Catalog, name string) (*schema.EntityType, error) {
	e, ok := cat.Entity(name)
	if !ok {
		return nil, newError(KindUnknownEntity, "unknown entity '%s'", name).
			withSuggestion("Available entities: %s", strings.Join(cat.SortedNames(), ", "))
	}
	return e, nil
}
