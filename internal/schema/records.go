package schema

import "sort"

// ApplyDefaults fills every absent, defaulted field of record in place and
// returns it. Producers run once per filled field.
func (e *EntityType) ApplyDefaults(record map[string]interface{}) map[string]interface{} {
	if record == nil {
		record = make(map[string]interface{})
	}
	for _, f := range e.Fields.All() {
		if _, present := record[f.Name]; present {
			continue
		}
		if v, ok := f.Default.Value(); ok {
			record[f.Name] = v
		}
	}
	return record
}

// Redact removes fields whose privacy rule hides them for this record.
// Rules are evaluated against the record as it was before any removal.
func (e *EntityType) Redact(record map[string]interface{}) map[string]interface{} {
	var hidden []string
	for _, f := range e.Fields.All() {
		v, present := record[f.Name]
		if !present {
			continue
		}
		if f.Privacy.Hidden(record, v) {
			hidden = append(hidden, f.Name)
		}
	}
	for _, name := range hidden {
		delete(record, name)
	}
	return record
}

// StripSystem removes fields callers are not allowed to write.
func (e *EntityType) StripSystem(record map[string]interface{}) map[string]interface{} {
	for _, f := range e.Fields.All() {
		if f.System {
			delete(record, f.Name)
		}
	}
	return record
}

// ConflictIndex returns the declared index whose field set equals constraint,
// ignoring order. It is used to pick an upsert conflict target.
func (e *EntityType) ConflictIndex(constraint []string) (IndexDefinition, bool) {
	if len(constraint) == 0 {
		return IndexDefinition{}, false
	}
	want := sortedCopy(constraint)
	for _, idx := range e.Indexes {
		if equalStrings(sortedCopy(idx.FieldNames()), want) {
			return idx, true
		}
	}
	return IndexDefinition{}, false
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
