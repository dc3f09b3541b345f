package query

import (
	"strings"

	"github.com/aidanlsb/sift/internal/schema"
)

// ParseExpand compiles an expansion string such as "author,comments[author]"
// against entity's schema. Empty input yields an empty map.
func ParseExpand(cat *schema.Catalog, entity, expand string) (Expansions, error) {
	e, err := lookupEntity(cat, entity)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(expand) == "" {
		return Expansions{}, nil
	}
	return parseExpansions(cat, e, expand)
}

func parseExpansions(cat *schema.Catalog, e *schema.EntityType, text string) (Expansions, error) {
	units, err := splitUnits(text)
	if err != nil {
		return nil, err
	}

	out := make(Expansions, len(units))
	for _, unit := range units {
		name, children, err := splitUnit(unit)
		if err != nil {
			return nil, err
		}

		rel := e.Relation(name)
		if rel == nil {
			return nil, newError(KindInvalidExpansion, "invalid expansion: '%s' is not a relation of '%s'", name, e.Name).
				withSuggestion("Available relations: %s", strings.Join(e.RelationNames(), ", "))
		}
		target, err := cat.Target(rel)
		if err != nil {
			return nil, newError(KindInvalidExpansion, "invalid expansion: '%s': %s", name, err)
		}

		d := ExpansionDescriptor{
			Cardinality: Many,
			FromEntity:  e.Name,
			FromTable:   e.Collection,
			FromField:   rel.LocalField,
			ToEntity:    target.Name,
			ToTable:     target.Collection,
			ToField:     rel.TargetField,
		}
		if rel.Kind.IsSingular() {
			d.Cardinality = One
		}
		if rel.Pivot != nil {
			d.ThroughEntity = rel.Pivot.Entity
			d.ThroughTable = rel.Pivot.Entity
			if pivot, ok := cat.PivotEntity(rel); ok {
				d.ThroughTable = pivot.Collection
			}
			d.ThroughFromField = rel.Pivot.LocalField
			d.ThroughToField = rel.Pivot.TargetField
		}

		if children != "" {
			nested, err := parseExpansions(cat, target, children)
			if err != nil {
				return nil, err
			}
			d.Expand = nested
		}
		out[name] = d
	}
	return out, nil
}

// splitUnits splits on commas that are not inside brackets.
func splitUnits(text string) ([]string, error) {
	var (
		units []string
		depth int
		start int
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, newError(KindInvalidExpansion, "unmatched ']' in expansion '%s'", text)
			}
		case ',':
			if depth == 0 {
				units = append(units, text[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, newError(KindInvalidExpansion, "unmatched '[' in expansion '%s'", text)
	}
	units = append(units, text[start:])

	for i, u := range units {
		units[i] = strings.TrimSpace(u)
		if units[i] == "" {
			return nil, newError(KindInvalidExpansion, "empty relation name in expansion '%s'", text)
		}
	}
	return units, nil
}

// splitUnit separates "name[children]" into its parts. The unit is already
// bracket-balanced.
func splitUnit(unit string) (name, children string, err error) {
	idx := strings.IndexByte(unit, '[')
	if idx < 0 {
		return unit, "", nil
	}
	if !strings.HasSuffix(unit, "]") {
		return "", "", newError(KindInvalidExpansion, "unexpected text after ']' in '%s'", unit)
	}
	name = strings.TrimSpace(unit[:idx])
	if name == "" {
		return "", "", newError(KindInvalidExpansion, "empty relation name in expansion '%s'", unit)
	}
	return name, strings.TrimSpace(unit[idx+1 : len(unit)-1]), nil
}

// ExpansionString renders a relation path as nested expansion syntax, the
// deepest relation innermost: [post user] -> "post[user]".
func ExpansionString(path []string) string {
	if len(path) == 0 {
		return ""
	}
	s := path[len(path)-1]
	for i := len(path) - 2; i >= 0; i-- {
		s = path[i] + "[" + s + "]"
	}
	return s
}
