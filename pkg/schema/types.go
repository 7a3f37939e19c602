package schema

import (
	"fmt"
	"time"
)

// FieldType is the closed set of value shapes a field can declare.
type FieldType string

const (
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeList    FieldType = "list"
	TypeObject  FieldType = "object"
)

// Known reports whether t is one of the declared field types.
func (t FieldType) Known() bool {
	switch t {
	case TypeText, TypeNumber, TypeBoolean, TypeDate, TypeList, TypeObject:
		return true
	}
	return false
}

// dateLayouts are the accepted textual encodings for TypeDate values.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Matches checks whether value conforms to the field type.
// Values are assumed to come from JSON decoding, so numbers arrive as
// float64 (or json.Number-compatible ints) and objects as maps.
func (t FieldType) Matches(value any) error {
	switch t {
	case TypeText:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected text, got %T", value)
		}
	case TypeNumber:
		switch value.(type) {
		case float32, float64, int, int8, int16, int32, int64:
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case TypeDate:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected date string, got %T", value)
		}
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return nil
			}
		}
		return fmt.Errorf("expected date (RFC 3339 or 2006-01-02), got %q", s)
	case TypeList:
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("expected list, got %T", value)
		}
	case TypeObject:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	default:
		return fmt.Errorf("unknown field type %q", t)
	}
	return nil
}

// Field declares a single named input a template expects.
type Field struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
}

// Schema is an ordered collection of field declarations.
// Field names must be unique; Check enforces the invariant.
type Schema struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// New builds a schema from the given fields and verifies its invariants.
func New(fields ...Field) (Schema, error) {
	s := Schema{Fields: fields}
	if err := s.Check(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Check verifies the schema definition itself: unique field names and
// known type tags. It does not look at any input data.
func (s Schema) Check() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema field with empty name")
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate schema field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if !f.Type.Known() {
			return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
	}
	return nil
}
