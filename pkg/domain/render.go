package domain

// Diagnostic is a compiler-reported problem, positioned as a half-open
// byte range [Start, End) into the template source.
type Diagnostic struct {
	Message string `json:"message"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// RenderResult is the uniform outcome of a render: either a PDF
// artifact with no diagnostics, or a non-empty diagnostics list with no
// artifact. A result carrying neither is a defect in the pipeline.
type RenderResult struct {
	PDF         []byte       `json:"pdf,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// OK reports whether the render produced an artifact.
func (r *RenderResult) OK() bool { return len(r.PDF) > 0 }

// RenderOptions configure the artifact encoding step. Unsupported
// values fall back to the documented defaults instead of failing the
// render.
type RenderOptions struct {
	// PaperSize names the page format ("a4", "letter", "legal").
	PaperSize string `json:"paper_size"`

	// Compress enables PDF stream compression.
	Compress bool `json:"compress"`
}

// DefaultRenderOptions mirror the service defaults: A4, compressed.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{PaperSize: "a4", Compress: true}
}
