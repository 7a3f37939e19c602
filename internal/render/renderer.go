// Package render drives the typesetting engine: it validates input data
// against the template schema, obtains a compilation world (fresh,
// caller-supplied or pooled), runs the compile step and maps the outcome
// into a uniform result of artifact-or-diagnostics.
package render

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/ports"
	"github.com/aretw0/vellum/pkg/typeset"
)

// Renderer is the render orchestrator. It is safe for concurrent use as
// long as distinct renders use distinct worlds; the pool guarantees that
// for the pooled path.
type Renderer struct {
	engine  ports.Typesetter
	pool    *WorldPool
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets a custom structured logger for the renderer.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithWorldPool enables world reuse across renders of the same template.
func WithWorldPool(pool *WorldPool) Option {
	return func(r *Renderer) {
		r.pool = pool
	}
}

// WithMetrics attaches render instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// New creates a renderer around the given engine.
func New(engine ports.Typesetter, opts ...Option) *Renderer {
	r := &Renderer{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Render validates data against the template's schema and renders it.
// A validation failure short-circuits before the engine is ever invoked
// and is returned as an error, distinct from compile diagnostics which
// arrive as data in the result.
//
// With a pool configured, worlds are leased per template and fed fresh
// data; otherwise each call builds a fresh world.
func (r *Renderer) Render(ctx context.Context, tmpl domain.Template, data map[string]any, opts domain.RenderOptions) (*domain.RenderResult, error) {
	if err := tmpl.ValidateData(data); err != nil {
		r.count(outcomeInvalid)
		return nil, err
	}

	var world *typeset.World
	var err error
	if r.pool != nil {
		world, err = r.pool.Checkout(tmpl, data)
	} else {
		world, err = typeset.NewWorld(tmpl.ID, tmpl.Source, data)
	}
	if err != nil {
		r.count(outcomeError)
		return nil, err
	}
	if r.pool != nil {
		defer r.pool.Release(world)
	}

	return r.renderWorld(ctx, world, opts)
}

// RenderWith renders using a caller-supplied world, replacing its bound
// data in place. The world must have been built for the same template;
// a mismatch returns typeset.ErrWorldMismatch instead of silently
// compiling against foreign source.
func (r *Renderer) RenderWith(ctx context.Context, tmpl domain.Template, world *typeset.World, data map[string]any, opts domain.RenderOptions) (*domain.RenderResult, error) {
	if err := tmpl.ValidateData(data); err != nil {
		r.count(outcomeInvalid)
		return nil, err
	}
	if world.TemplateID() != tmpl.ID || world.Source() != tmpl.Source {
		r.count(outcomeError)
		return nil, typeset.ErrWorldMismatch
	}
	if err := world.UpdateData(data); err != nil {
		r.count(outcomeError)
		return nil, err
	}
	return r.renderWorld(ctx, world, opts)
}

func (r *Renderer) renderWorld(ctx context.Context, world *typeset.World, opts domain.RenderOptions) (*domain.RenderResult, error) {
	start := time.Now()

	doc, diags := r.engine.Compile(ctx, world)
	if doc == nil {
		result := &domain.RenderResult{Diagnostics: r.resolveDiagnostics(world, diags)}
		r.count(outcomeDiagnostics)
		r.observe(time.Since(start))
		r.logger.Debug("render failed with diagnostics",
			"template", world.TemplateID(),
			"diagnostics", len(result.Diagnostics),
		)
		return result, nil
	}

	pdf, err := r.engine.Encode(doc, opts)
	if err != nil {
		r.count(outcomeError)
		return nil, err
	}

	r.count(outcomeOK)
	r.observe(time.Since(start))
	r.logger.Debug("render succeeded",
		"template", world.TemplateID(),
		"bytes", len(pdf),
		"duration", time.Since(start),
	)
	return &domain.RenderResult{PDF: pdf, Diagnostics: []domain.Diagnostic{}}, nil
}

// resolveDiagnostics maps engine spans back to source offsets through
// the world. Diagnostics that cannot be positioned in the template
// source are dropped (best-effort reporting); if that would drop every
// diagnostic, a single unpositioned one is kept so a failed compile is
// never reported as empty-handed success.
func (r *Renderer) resolveDiagnostics(world *typeset.World, diags []typeset.Diagnostic) []domain.Diagnostic {
	resolved := make([]domain.Diagnostic, 0, len(diags))
	for _, d := range diags {
		start, end, ok := world.Resolve(d.Span)
		if !ok {
			r.logger.Debug("dropping unresolvable diagnostic",
				"template", world.TemplateID(),
				"message", d.Message,
			)
			continue
		}
		resolved = append(resolved, domain.Diagnostic{
			Message: d.Message,
			Start:   start,
			End:     end,
		})
	}

	if len(resolved) == 0 && len(diags) > 0 {
		resolved = append(resolved, domain.Diagnostic{
			Message: diags[0].Message,
			Start:   0,
			End:     0,
		})
	}
	return resolved
}

func (r *Renderer) count(outcome string) {
	if r.metrics != nil {
		r.metrics.renders.WithLabelValues(outcome).Inc()
	}
}

func (r *Renderer) observe(d time.Duration) {
	if r.metrics != nil {
		r.metrics.duration.Observe(d.Seconds())
	}
}
