package schema

import (
	"time"

	"github.com/google/uuid"
)

// Default is a field's default value: either a constant or a zero-argument
// producer evaluated each time the default is needed. The zero Default is unset.
type Default struct {
	constant interface{}
	produce  func() interface{}
}

// ConstantDefault returns a default that always yields v.
func ConstantDefault(v interface{}) Default {
	return Default{constant: v}
}

// ProducedDefault returns a default computed by fn on every use.
func ProducedDefault(fn func() interface{}) Default {
	return Default{produce: fn}
}

// IsSet reports whether a default was declared.
func (d Default) IsSet() bool {
	return d.produce != nil || d.constant != nil
}

// Value evaluates the default.
func (d Default) Value() (interface{}, bool) {
	if d.produce != nil {
		return d.produce(), true
	}
	if d.constant != nil {
		return d.constant, true
	}
	return nil, false
}

// producers are the named default producers available to YAML catalogs.
var producers = map[string]func() interface{}{
	"now":  func() interface{} { return time.Now().UTC().Format(time.RFC3339) },
	"uuid": func() interface{} { return uuid.NewString() },
}

// Privacy decides whether a field is hidden from non-privileged callers.
// It is either a constant or a predicate over the owning record and the
// field's current value. The zero Privacy is Constant(false).
type Privacy struct {
	constant bool
	compute  func(record map[string]interface{}, value interface{}) bool
}

// PrivacyConstant returns a fixed privacy rule.
func PrivacyConstant(private bool) Privacy {
	return Privacy{constant: private}
}

// PrivacyComputed returns a privacy rule evaluated per record.
func PrivacyComputed(fn func(record map[string]interface{}, value interface{}) bool) Privacy {
	return Privacy{compute: fn}
}

// IsComputed reports whether the rule depends on the record.
func (p Privacy) IsComputed() bool {
	return p.compute != nil
}

// Hidden evaluates the rule for a field value within record.
func (p Privacy) Hidden(record map[string]interface{}, value interface{}) bool {
	if p.compute != nil {
		return p.compute(record, value)
	}
	return p.constant
}
