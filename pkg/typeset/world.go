package typeset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/vellum/pkg/domain"
)

// MainInput is the fixed name under which the bound data value is
// visible to the compiler.
const MainInput = "data"

// FileID identifies a file exposed by a World. Each World exposes a
// single main file holding the template source.
type FileID int

const mainFile FileID = 0

// Span is an engine-internal location: a byte range within one of the
// files a World exposes. Only the owning World can translate it back to
// source offsets.
type Span struct {
	File  FileID
	Start int
	End   int
}

// Diagnostic is a compiler-level problem with an engine span attached.
// Resolution to source offsets happens through World.Resolve.
type Diagnostic struct {
	Message string
	Span    Span
}

// World wraps template source and bound input data for compilation.
//
// The zero value is not usable; build one with NewWorld. A World is not
// safe for concurrent use.
type World struct {
	templateID domain.TemplateID
	source     string

	// raw is the serialized form handed to the engine; value is the
	// decoded copy placeholder lookups walk.
	raw   []byte
	value any
}

// NewWorld constructs a fresh world presenting source as the sole
// resolvable file and data as the bound input value.
func NewWorld(templateID domain.TemplateID, source string, data any) (*World, error) {
	w := &World{templateID: templateID, source: source}
	if err := w.UpdateData(data); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateData replaces the bound input value in place, keeping the source
// representation intact so the world can be reused across renders of
// the same template. On serialization failure the previous binding is
// left untouched.
func (w *World) UpdateData(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return &InputError{Err: fmt.Errorf("serialize input %q: %w", MainInput, err)}
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return &InputError{Err: fmt.Errorf("decode input %q: %w", MainInput, err)}
	}
	w.raw = raw
	w.value = value
	return nil
}

// TemplateID returns the template this world was built for. Callers
// reusing a cached world must check it against the template they are
// about to render.
func (w *World) TemplateID() domain.TemplateID { return w.templateID }

// Source returns the template source text of the main file.
func (w *World) Source() string { return w.source }

// RawInput returns the serialized form of the bound input value.
func (w *World) RawInput() []byte { return w.raw }

// Resolve maps an engine span back to a byte offset range in the
// original template source. It reports false for spans referencing a
// file this world does not expose or falling outside the source bounds;
// such diagnostics are dropped by the orchestrator rather than failing
// the render.
func (w *World) Resolve(span Span) (start, end int, ok bool) {
	if span.File != mainFile {
		return 0, 0, false
	}
	if span.Start < 0 || span.End < span.Start || span.End > len(w.source) {
		return 0, 0, false
	}
	return span.Start, span.End, true
}

// Lookup walks a dot-separated path into the bound input value and
// renders the result as text. Scalars stringify directly; composite
// values render as compact JSON.
func (w *World) Lookup(path string) (string, bool) {
	current := w.value
	if path != "" {
		for _, key := range strings.Split(path, ".") {
			obj, ok := current.(map[string]any)
			if !ok {
				return "", false
			}
			current, ok = obj[key]
			if !ok {
				return "", false
			}
		}
	}
	return renderValue(current), true
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}
