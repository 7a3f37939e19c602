package schema

import (
	"encoding/json"
	"testing"
)

func TestNew_RejectsDuplicateFieldNames(t *testing.T) {
	_, err := New(
		Field{Name: "amount", Type: TypeNumber},
		Field{Name: "amount", Type: TypeText},
	)
	if err == nil {
		t.Fatal("New() should reject duplicate field names")
	}
}

func TestNew_RejectsUnknownType(t *testing.T) {
	_, err := New(Field{Name: "blob", Type: FieldType("binary")})
	if err == nil {
		t.Fatal("New() should reject unknown type tags")
	}
}

func TestNew_RejectsEmptyName(t *testing.T) {
	_, err := New(Field{Name: "", Type: TypeText})
	if err == nil {
		t.Fatal("New() should reject empty field names")
	}
}

func TestCheck_PreservesFieldOrder(t *testing.T) {
	s, err := New(
		Field{Name: "z", Type: TypeText},
		Field{Name: "a", Type: TypeNumber},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Fields[0].Name != "z" || s.Fields[1].Name != "a" {
		t.Errorf("field order changed: %v", s.Fields)
	}
}

func TestSchema_JSONDecodeThenCheck(t *testing.T) {
	raw := `{"fields":[{"name":"name","type":"text","required":true},{"name":"name","type":"text"}]}`

	var s Schema
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := s.Check(); err == nil {
		t.Fatal("Check() should catch duplicates coming from JSON")
	}
}
