// Package query compiles the filter, expansion and sort mini-languages into
// validated structures for the query assembler.
package query

// Operator is a filter comparison operator. The set is closed.
type Operator string

const (
	OpEq        Operator = "="
	OpNeq       Operator = "!="
	OpGt        Operator = ">"
	OpGte       Operator = ">="
	OpLt        Operator = "<"
	OpLte       Operator = "<="
	OpLike      Operator = "LIKE"
	OpNotLike   Operator = "NOT LIKE"
	OpIn        Operator = "IN"
	OpNotIn     Operator = "NOT IN"
	OpIsNull    Operator = "IS NULL"
	OpIsNotNull Operator = "IS NOT NULL"
)

// Operators lists every supported operator.
var Operators = []Operator{
	OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte,
	OpLike, OpNotLike, OpIn, OpNotIn, OpIsNull, OpIsNotNull,
}

// IsNullCheck reports whether the operator takes no value.
func (op Operator) IsNullCheck() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// IsList reports whether the operator's value is a parenthesized list.
func (op Operator) IsList() bool {
	return op == OpIn || op == OpNotIn
}

// isKeyword reports whether the operator is spelled with letters and so
// needs a word boundary after it.
func (op Operator) isKeyword() bool {
	c := op[0]
	return c >= 'A' && c <= 'Z'
}

// Connector joins a clause to the previous clause at the same level.
type Connector string

const (
	ConnectorNone Connector = ""
	And           Connector = "AND"
	Or            Connector = "OR"
)

// FilterClause is one predicate term. Clauses holds the rest of a
// parenthesized group anchored at this clause.
type FilterClause struct {
	Field     string         `json:"field"`
	JSONPath  []string       `json:"jsonPath"`
	Relation  string         `json:"relation,omitempty"`
	Operator  Operator       `json:"operator"`
	Value     *string        `json:"value"`
	Connector Connector      `json:"andOr,omitempty"`
	Clauses   []FilterClause `json:"clauses,omitempty"`
}

// Literal returns a pointer to s, for building expected clauses.
func Literal(s string) *string {
	return &s
}

// Cardinality says whether an expansion yields one record or many.
type Cardinality string

const (
	One  Cardinality = "one"
	Many Cardinality = "many"
)

// ExpansionDescriptor carries everything needed to join a related entity.
// It refers to entities by name only.
type ExpansionDescriptor struct {
	Cardinality      Cardinality `json:"type"`
	FromEntity       string      `json:"fromEntity"`
	FromTable        string      `json:"fromTable"`
	FromField        string      `json:"fromField"`
	ToEntity         string      `json:"toEntity"`
	ToTable          string      `json:"toTable"`
	ToField          string      `json:"toField"`
	ThroughEntity    string      `json:"throughEntity,omitempty"`
	ThroughTable     string      `json:"throughTable,omitempty"`
	ThroughFromField string      `json:"throughFromField,omitempty"`
	ThroughToField   string      `json:"throughToField,omitempty"`
	Expand           Expansions  `json:"expand,omitempty"`
}

// Expansions maps relation names to their descriptors.
type Expansions map[string]ExpansionDescriptor
