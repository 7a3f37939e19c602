package ports

import (
	"context"

	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/typeset"
)

// Typesetter is the external compile engine the orchestrator drives.
// Compile returns either a document or a non-empty diagnostics list;
// Encode turns a compiled document into the final artifact bytes.
type Typesetter interface {
	Compile(ctx context.Context, world *typeset.World) (*typeset.Document, []typeset.Diagnostic)
	Encode(doc *typeset.Document, opts domain.RenderOptions) ([]byte, error)
}
