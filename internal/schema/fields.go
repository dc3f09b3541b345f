package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Fields is an insertion-ordered set of field schemas keyed by name.
type Fields struct {
	order  []*FieldSchema
	byName map[string]*FieldSchema
}

// NewFields builds an ordered field set. Later duplicates replace earlier ones
// but keep the original position.
func NewFields(fields ...*FieldSchema) *Fields {
	fs := &Fields{byName: make(map[string]*FieldSchema, len(fields))}
	for _, f := range fields {
		fs.add(f)
	}
	return fs
}

func (fs *Fields) add(f *FieldSchema) {
	if existing, ok := fs.byName[f.Name]; ok {
		for i := range fs.order {
			if fs.order[i] == existing {
				fs.order[i] = f
			}
		}
	} else {
		fs.order = append(fs.order, f)
	}
	fs.byName[f.Name] = f
}

// Get returns the named field or nil.
func (fs *Fields) Get(name string) *FieldSchema {
	if fs == nil {
		return nil
	}
	return fs.byName[name]
}

// Has reports whether the field is declared.
func (fs *Fields) Has(name string) bool {
	return fs.Get(name) != nil
}

// All returns the fields in declaration order.
func (fs *Fields) All() []*FieldSchema {
	if fs == nil {
		return nil
	}
	return fs.order
}

// Names returns the field names in declaration order.
func (fs *Fields) Names() []string {
	if fs == nil {
		return nil
	}
	names := make([]string, len(fs.order))
	for i, f := range fs.order {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of declared fields.
func (fs *Fields) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.order)
}

// fieldOptions is the YAML shape of a single field.
type fieldOptions struct {
	Relation    *RelationDescriptor `yaml:"relation"`
	Default     interface{}         `yaml:"default"`
	DefaultFunc string              `yaml:"default_func"`
	Private     bool                `yaml:"private"`
	System      bool                `yaml:"system"`
	Required    bool                `yaml:"required"`
	Unique      bool                `yaml:"unique"`
}

// UnmarshalYAML decodes a mapping of field name to options, keeping the
// mapping's key order. A field may be written with an empty value
// (`title:` or `title: {}`).
func (fs *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", node.Line)
	}

	*fs = Fields{byName: make(map[string]*FieldSchema, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var opts fieldOptions
		if !isNullNode(valueNode) {
			if err := valueNode.Decode(&opts); err != nil {
				return fmt.Errorf("field '%s': %w", keyNode.Value, err)
			}
		}

		f := &FieldSchema{
			Name:     keyNode.Value,
			Relation: opts.Relation,
			Privacy:  PrivacyConstant(opts.Private),
			System:   opts.System,
			Required: opts.Required,
			Unique:   opts.Unique,
		}

		switch {
		case opts.DefaultFunc != "":
			producer, ok := producers[opts.DefaultFunc]
			if !ok {
				return fmt.Errorf("field '%s': unknown default_func %q", keyNode.Value, opts.DefaultFunc)
			}
			f.Default = ProducedDefault(producer)
		case opts.Default != nil:
			f.Default = ConstantDefault(opts.Default)
		}

		if _, dup := fs.byName[f.Name]; dup {
			return fmt.Errorf("line %d: duplicate field '%s'", keyNode.Line, f.Name)
		}
		fs.add(f)
	}
	return nil
}

func isNullNode(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
