package query

import (
	"github.com/aidanlsb/sift/internal/logging"
	"github.com/aidanlsb/sift/internal/schema"
)

// Page is a cursor position keyed by the entity's id field.
type Page struct {
	Field  string `json:"field"`
	Cursor string `json:"cursor"`
}

// CursorPage returns the page for cursor, or nil when no cursor was given.
func CursorPage(e *schema.EntityType, cursor string) *Page {
	if cursor == "" {
		return nil
	}
	return &Page{Field: e.IDField, Cursor: cursor}
}

// Limits bounds the page size callers may request.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits are used when no configuration overrides them.
var DefaultLimits = Limits{Default: 12, Max: 100}

// Resolve returns the effective limit for a requested one. Non-positive
// requests get the default; requests above Max are capped unless override.
func (l Limits) Resolve(requested int, override bool) int {
	if requested <= 0 {
		return l.Default
	}
	if requested > l.Max && !override {
		return l.Max
	}
	return requested
}

// Request holds the raw strings a caller supplies for one listing.
type Request struct {
	Filter     string `json:"filter,omitempty"`
	Expand     string `json:"expand,omitempty"`
	Sort       string `json:"sort,omitempty"`
	Cursor     string `json:"cursor,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	NoLimitCap bool   `json:"no_limit_cap,omitempty"`
}

// Plan is everything the query assembler needs to build one query.
type Plan struct {
	Entity    string         `json:"entity"`
	Table     string         `json:"table"`
	Where     []FilterClause `json:"where"`
	Expand    Expansions     `json:"expand"`
	Order     []SortSpec     `json:"order"`
	Page      *Page          `json:"page,omitempty"`
	Limit     int            `json:"limit"`
	Returning []string       `json:"returning"`
}

// Compiler compiles requests against one catalog. It holds no mutable state
// and may be shared between goroutines.
type Compiler struct {
	catalog *schema.Catalog
	limits  Limits
}

// NewCompiler creates a compiler. Zero limits fall back to DefaultLimits
// and the default never exceeds the max.
func NewCompiler(cat *schema.Catalog, limits Limits) *Compiler {
	return &Compiler{catalog: cat, limits: limits.withDefaults()}
}

func (l Limits) withDefaults() Limits {
	if l.Default <= 0 {
		l.Default = DefaultLimits.Default
	}
	if l.Max <= 0 {
		l.Max = DefaultLimits.Max
	}
	if l.Default > l.Max {
		l.Default = l.Max
	}
	return l
}

// Filter compiles a filter string.
func (c *Compiler) Filter(entity, filter string) ([]FilterClause, error) {
	return ParseFilter(c.catalog, entity, filter)
}

// Expand compiles an expansion string.
func (c *Compiler) Expand(entity, expand string) (Expansions, error) {
	return ParseExpand(c.catalog, entity, expand)
}

// Sort compiles a sort string.
func (c *Compiler) Sort(entity, sort string) ([]SortSpec, error) {
	return ParseSort(c.catalog, entity, sort)
}

// Compile compiles every part of req. It returns either a complete plan or
// the first error.
func (c *Compiler) Compile(entity string, req Request) (*Plan, error) {
	e, err := lookupEntity(c.catalog, entity)
	if err != nil {
		return nil, err
	}

	where, err := c.Filter(entity, req.Filter)
	if err != nil {
		return nil, err
	}
	expand, err := c.Expand(entity, req.Expand)
	if err != nil {
		return nil, err
	}
	order, err := c.Sort(entity, req.Sort)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Entity:    e.Name,
		Table:     e.Collection,
		Where:     where,
		Expand:    expand,
		Order:     order,
		Page:      CursorPage(e, req.Cursor),
		Limit:     c.limits.Resolve(req.Limit, req.NoLimitCap),
		Returning: e.Returning(),
	}

	logging.Debug().
		Str("entity", e.Name).
		Int("clauses", len(where)).
		Int("expansions", len(expand)).
		Int("limit", plan.Limit).
		Msg("compiled plan")
	return plan, nil
}

// Limits returns the effective page limits after defaults are applied.
func (c *Compiler) Limits() Limits {
	return c.limits
}
