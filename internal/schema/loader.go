package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the catalog file looked up when no path is configured.
const DefaultFileName = "schema.yaml"

// catalogFile is the YAML document shape.
type catalogFile struct {
	Entities yaml.Node `yaml:"entities"`
}

type entityFile struct {
	Collection  string            `yaml:"collection"`
	IDField     string            `yaml:"id_field"`
	KeyField    string            `yaml:"key_field"`
	OwnerField  string            `yaml:"owner_field"`
	Timestamped bool              `yaml:"timestamped"`
	Fields      *Fields           `yaml:"fields"`
	Indexes     []IndexDefinition `yaml:"indexes"`
}

// Option adjusts entity types after decoding and before the catalog is validated.
type Option func(map[string]*EntityType) error

// WithPrivacy attaches a privacy rule to a declared field. Computed rules
// cannot be expressed in YAML, so callers register them here.
func WithPrivacy(entity, field string, rule Privacy) Option {
	return func(types map[string]*EntityType) error {
		e, ok := types[entity]
		if !ok {
			return fmt.Errorf("privacy rule for unknown entity '%s'", entity)
		}
		f := e.Field(field)
		if f == nil {
			return fmt.Errorf("privacy rule for unknown field '%s.%s'", entity, field)
		}
		f.Privacy = rule
		return nil
	}
}

// WithDefault attaches a default to a declared field.
func WithDefault(entity, field string, def Default) Option {
	return func(types map[string]*EntityType) error {
		e, ok := types[entity]
		if !ok {
			return fmt.Errorf("default for unknown entity '%s'", entity)
		}
		f := e.Field(field)
		if f == nil {
			return fmt.Errorf("default for unknown field '%s.%s'", entity, field)
		}
		f.Default = def
		return nil
	}
}

// Load reads and validates a catalog file.
func Load(path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	cat, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema file %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a catalog from YAML. Entity and field declaration order is kept.
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	node := &file.Entities
	if node.Kind == 0 {
		return NewCatalog()
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: 'entities' must be a mapping", node.Line)
	}

	var entities []*EntityType
	byName := make(map[string]*EntityType)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value

		var ef entityFile
		if err := node.Content[i+1].Decode(&ef); err != nil {
			return nil, fmt.Errorf("entity '%s': %w", name, err)
		}
		e := &EntityType{
			Name:        name,
			Collection:  ef.Collection,
			IDField:     ef.IDField,
			KeyField:    ef.KeyField,
			OwnerField:  ef.OwnerField,
			Timestamped: ef.Timestamped,
			Fields:      ef.Fields,
			Indexes:     ef.Indexes,
		}
		entities = append(entities, e)
		byName[name] = e
	}

	for _, opt := range opts {
		if err := opt(byName); err != nil {
			return nil, err
		}
	}

	return NewCatalog(entities...)
}

// UnmarshalYAML accepts `fields` as a list of names (all ascending) or as an
// ordered mapping of name to 1 / -1.
func (d *IndexDefinition) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Fields yaml.Node `yaml:"fields"`
		Unique bool      `yaml:"unique"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	d.Unique = raw.Unique
	d.Fields = nil

	switch raw.Fields.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := raw.Fields.Decode(&names); err != nil {
			return err
		}
		for _, n := range names {
			d.Fields = append(d.Fields, IndexField{Name: n, Order: 1})
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(raw.Fields.Content); i += 2 {
			var order int
			if err := raw.Fields.Content[i+1].Decode(&order); err != nil {
				return fmt.Errorf("line %d: index order must be 1 or -1", raw.Fields.Content[i+1].Line)
			}
			if order != 1 && order != -1 {
				return fmt.Errorf("line %d: index order must be 1 or -1", raw.Fields.Content[i+1].Line)
			}
			d.Fields = append(d.Fields, IndexField{Name: raw.Fields.Content[i].Value, Order: order})
		}
	default:
		return fmt.Errorf("line %d: index 'fields' must be a list or a mapping", node.Line)
	}
	return nil
}
