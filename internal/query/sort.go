package query

import (
	"strings"

	"github.com/aidanlsb/sift/internal/schema"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortSpec orders results by a field, or by a JSON path inside it.
type SortSpec struct {
	Field     string    `json:"field"`
	JSONPath  []string  `json:"jsonPath"`
	Direction Direction `json:"direction"`
}

// ParseSort compiles "field [ASC|DESC], other.path DESC". Empty input sorts
// by the entity's id field ascending.
func ParseSort(cat *schema.Catalog, entity, sort string) ([]SortSpec, error) {
	e, err := lookupEntity(cat, entity)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(sort) == "" {
		return []SortSpec{{Field: e.IDField, JSONPath: []string{}, Direction: Asc}}, nil
	}

	var specs []SortSpec
	for _, item := range strings.Split(sort, ",") {
		parts := strings.Fields(item)
		if len(parts) == 0 {
			return nil, newError(KindInvalidSortField, "empty sort field in '%s'", sort)
		}
		if len(parts) > 2 {
			return nil, newError(KindInvalidSortDirection, "invalid sort direction: '%s'", strings.Join(parts[1:], " ")).
				withSuggestion("Use ASC or DESC")
		}

		segs := strings.Split(parts[0], ".")
		f := e.Field(segs[0])
		if f == nil || f.IsRelation() {
			return nil, newError(KindInvalidSortField, "invalid sort field: '%s'", segs[0]).
				withSuggestion("Available fields: %s", strings.Join(e.Returning(), ", "))
		}
		for _, s := range segs[1:] {
			if s == "" {
				return nil, newError(KindInvalidSortField, "invalid sort field path: '%s'", parts[0])
			}
		}

		dir := Asc
		if len(parts) == 2 {
			switch Direction(strings.ToUpper(parts[1])) {
			case Asc:
			case Desc:
				dir = Desc
			default:
				return nil, newError(KindInvalidSortDirection, "invalid sort direction: '%s'", parts[1]).
					withSuggestion("Use ASC or DESC")
			}
		}

		specs = append(specs, SortSpec{Field: segs[0], JSONPath: append([]string{}, segs[1:]...), Direction: dir})
	}
	return specs, nil
}
