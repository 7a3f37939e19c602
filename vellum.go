package vellum

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/vellum/internal/adapters/memory"
	"github.com/aretw0/vellum/internal/render"
	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/ports"
	"github.com/aretw0/vellum/pkg/schema"
	"github.com/aretw0/vellum/pkg/typeset"
)

// Version of the vellum library.
const Version = "0.3.0"

// Service is the high-level entry point for the vellum library. It wires
// the template store, the typesetting engine and the render orchestrator
// behind one API that adapters (HTTP, CLI) consume.
type Service struct {
	store    ports.TemplateStore
	engine   ports.Typesetter
	pool     *render.WorldPool
	renderer *render.Renderer
	logger   *slog.Logger
	registry prometheus.Registerer
	noCache  bool
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithStore injects a custom template store. Defaults to an in-memory store.
func WithStore(store ports.TemplateStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithTypesetter injects a custom compile engine.
func WithTypesetter(engine ports.Typesetter) Option {
	return func(s *Service) {
		s.engine = engine
	}
}

// WithLogger sets a custom structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics registers render instrumentation on the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Service) {
		s.registry = reg
	}
}

// WithoutWorldCache disables world reuse; every render builds a fresh
// compilation world.
func WithoutWorldCache() Option {
	return func(s *Service) {
		s.noCache = true
	}
}

// New initializes a vellum Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = memory.NewStore()
	}
	if s.engine == nil {
		s.engine = typeset.NewEngine()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	renderOpts := []render.Option{render.WithLogger(s.logger)}
	if !s.noCache {
		s.pool = render.NewWorldPool()
		renderOpts = append(renderOpts, render.WithWorldPool(s.pool))
	}
	if s.registry != nil {
		renderOpts = append(renderOpts, render.WithMetrics(render.NewMetrics(s.registry)))
	}
	s.renderer = render.New(s.engine, renderOpts...)

	return s
}

// Store exposes the underlying template store.
func (s *Service) Store() ports.TemplateStore { return s.store }

// CreateTemplate validates the schema definition, builds the template
// and persists it.
func (s *Service) CreateTemplate(ctx context.Context, id domain.TemplateID, name, source string, sch schema.Schema, description string) (domain.Template, error) {
	if err := sch.Check(); err != nil {
		return domain.Template{}, fmt.Errorf("invalid schema: %w", err)
	}

	tmpl := domain.NewTemplate(id, name, source, sch)
	if description != "" {
		tmpl = tmpl.WithDescription(description)
	}

	if err := s.store.SaveTemplate(ctx, tmpl); err != nil {
		return domain.Template{}, err
	}

	s.logger.Info("template created", "template", id)
	return tmpl, nil
}

// GetTemplate retrieves a template by ID.
func (s *Service) GetTemplate(ctx context.Context, id domain.TemplateID) (domain.Template, error) {
	return s.store.GetTemplate(ctx, id)
}

// ListTemplates returns all stored templates.
func (s *Service) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	return s.store.ListTemplates(ctx)
}

// UpdateTemplate applies a partial update and persists the result. Any
// cached world for the template is evicted so the next render sees the
// new source.
func (s *Service) UpdateTemplate(ctx context.Context, id domain.TemplateID, update domain.TemplateUpdate) (domain.Template, error) {
	if update.Schema != nil {
		if err := update.Schema.Check(); err != nil {
			return domain.Template{}, fmt.Errorf("invalid schema: %w", err)
		}
	}

	tmpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}

	tmpl = tmpl.Apply(update)
	if err := s.store.SaveTemplate(ctx, tmpl); err != nil {
		return domain.Template{}, err
	}

	if s.pool != nil {
		s.pool.Evict(id)
	}
	s.logger.Info("template updated", "template", id)
	return tmpl, nil
}

// DeleteTemplate removes a template and drops any cached world for it.
func (s *Service) DeleteTemplate(ctx context.Context, id domain.TemplateID) error {
	if err := s.store.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	if s.pool != nil {
		s.pool.Evict(id)
	}
	s.logger.Info("template deleted", "template", id)
	return nil
}

// Render fetches a template and renders it with the given data.
// Options nil means the service defaults (A4, compressed).
func (s *Service) Render(ctx context.Context, id domain.TemplateID, data map[string]any, opts *domain.RenderOptions) (*domain.RenderResult, error) {
	tmpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.RenderTemplate(ctx, tmpl, data, opts)
}

// RenderTemplate renders a template value directly, bypassing storage.
func (s *Service) RenderTemplate(ctx context.Context, tmpl domain.Template, data map[string]any, opts *domain.RenderOptions) (*domain.RenderResult, error) {
	options := domain.DefaultRenderOptions()
	if opts != nil {
		options = *opts
	}
	return s.renderer.Render(ctx, tmpl, data, options)
}

// ListTemplateFiles returns the template's auxiliary file paths.
func (s *Service) ListTemplateFiles(ctx context.Context, id domain.TemplateID) ([]string, error) {
	return s.store.ListTemplateFiles(ctx, id)
}

// GetTemplateFile retrieves one auxiliary file.
func (s *Service) GetTemplateFile(ctx context.Context, id domain.TemplateID, path string) ([]byte, error) {
	return s.store.GetTemplateFile(ctx, id, path)
}

// SaveTemplateFile persists one auxiliary file.
func (s *Service) SaveTemplateFile(ctx context.Context, id domain.TemplateID, path string, data []byte) error {
	return s.store.SaveTemplateFile(ctx, id, path, data)
}

// DeleteTemplateFile removes one auxiliary file.
func (s *Service) DeleteTemplateFile(ctx context.Context, id domain.TemplateID, path string) error {
	return s.store.DeleteTemplateFile(ctx, id, path)
}

// Render is a convenience for library users who hold a template value
// and don't need a Service: it validates data against the template's
// schema and renders it with the default engine.
func Render(ctx context.Context, tmpl domain.Template, data map[string]any, opts *domain.RenderOptions) (*domain.RenderResult, error) {
	options := domain.DefaultRenderOptions()
	if opts != nil {
		options = *opts
	}
	return render.New(typeset.NewEngine()).Render(ctx, tmpl, data, options)
}
