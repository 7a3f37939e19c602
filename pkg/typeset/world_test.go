package typeset

import (
	"strings"
	"testing"
)

func TestNewWorld_BindsData(t *testing.T) {
	w, err := NewWorld("invoice", "Hello {{name}}", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	got, ok := w.Lookup("name")
	if !ok || got != "Ada" {
		t.Errorf("Lookup(name) = %q, %v; want \"Ada\", true", got, ok)
	}
	if w.TemplateID() != "invoice" {
		t.Errorf("TemplateID() = %q", w.TemplateID())
	}
}

func TestNewWorld_SerializationFailure(t *testing.T) {
	_, err := NewWorld("invoice", "src", map[string]any{"f": func() {}})
	if err == nil {
		t.Fatal("NewWorld() should fail for unserializable data")
	}
	if _, ok := err.(*InputError); !ok {
		t.Errorf("error type = %T, want *InputError", err)
	}
}

func TestUpdateData_ReplacesBinding(t *testing.T) {
	w, err := NewWorld("invoice", "src", map[string]any{"name": "Ada", "old": "leftover"})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	if err := w.UpdateData(map[string]any{"name": "Grace"}); err != nil {
		t.Fatalf("UpdateData() error = %v", err)
	}

	got, _ := w.Lookup("name")
	if got != "Grace" {
		t.Errorf("Lookup(name) = %q, want %q", got, "Grace")
	}
	if _, ok := w.Lookup("old"); ok {
		t.Error("Lookup(old) found stale binding; UpdateData must not leak previous data")
	}
}

func TestUpdateData_FailureKeepsPreviousBinding(t *testing.T) {
	w, err := NewWorld("invoice", "src", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	if err := w.UpdateData(map[string]any{"bad": make(chan int)}); err == nil {
		t.Fatal("UpdateData() should fail for unserializable data")
	}

	got, ok := w.Lookup("name")
	if !ok || got != "Ada" {
		t.Errorf("Lookup(name) after failed update = %q, %v; want previous binding intact", got, ok)
	}
}

func TestLookup_DotPathsAndRendering(t *testing.T) {
	w, err := NewWorld("t", "src", map[string]any{
		"customer": map[string]any{"name": "Ada", "vip": true},
		"amount":   129.5,
		"count":    3,
		"items":    []any{"pen", "paper"},
	})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"customer.name", "Ada", true},
		{"customer.vip", "true", true},
		{"amount", "129.5", true},
		{"count", "3", true},
		{"items", `["pen","paper"]`, true},
		{"customer.missing", "", false},
		{"nope", "", false},
		{"amount.deeper", "", false},
	}

	for _, tt := range tests {
		got, ok := w.Lookup(tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolve_Bounds(t *testing.T) {
	source := "0123456789"
	w, err := NewWorld("t", source, nil)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	tests := []struct {
		name string
		span Span
		ok   bool
	}{
		{"inside", Span{File: mainFile, Start: 2, End: 5}, true},
		{"full range", Span{File: mainFile, Start: 0, End: len(source)}, true},
		{"empty at end", Span{File: mainFile, Start: 10, End: 10}, true},
		{"past end", Span{File: mainFile, Start: 0, End: 11}, false},
		{"negative", Span{File: mainFile, Start: -1, End: 3}, false},
		{"inverted", Span{File: mainFile, Start: 5, End: 2}, false},
		{"foreign file", Span{File: 7, Start: 0, End: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := w.Resolve(tt.span)
			if ok != tt.ok {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.ok)
			}
			if ok && (start < 0 || end < start || end > len(source)) {
				t.Errorf("Resolve() = [%d, %d) outside source bounds", start, end)
			}
		})
	}
}

func TestRawInput_IsSerializedForm(t *testing.T) {
	w, err := NewWorld("t", "src", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	if !strings.Contains(string(w.RawInput()), `"Ada"`) {
		t.Errorf("RawInput() = %s, want serialized data", w.RawInput())
	}
}
