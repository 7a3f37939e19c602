package vellum_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vellum"
	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/schema"
)

func greetingSchema(t *testing.T) schema.Schema {
	t.Helper()
	sch, err := schema.New(
		schema.Field{Name: "name", Type: schema.TypeText, Required: true},
	)
	require.NoError(t, err)
	return sch
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := vellum.New()

	tmpl, err := svc.CreateTemplate(ctx, "greeting", "Greeting",
		"# Hello\n\nDear {{name}}.", greetingSchema(t), "greets people")
	require.NoError(t, err)
	assert.Equal(t, tmpl.CreatedAt, tmpl.UpdatedAt)

	got, err := svc.GetTemplate(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, tmpl, got)

	all, err := svc.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	newName := "Formal Greeting"
	updated, err := svc.UpdateTemplate(ctx, "greeting", domain.TemplateUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Formal Greeting", updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	require.NoError(t, svc.DeleteTemplate(ctx, "greeting"))
	_, err = svc.GetTemplate(ctx, "greeting")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestCreateTemplate_RejectsInvalidSchema(t *testing.T) {
	svc := vellum.New()

	bad := schema.Schema{Fields: []schema.Field{
		{Name: "a", Type: schema.TypeText},
		{Name: "a", Type: schema.TypeNumber},
	}}
	_, err := svc.CreateTemplate(context.Background(), "x", "X", "body", bad, "")
	assert.Error(t, err)
}

func TestRender_ProducesPDF(t *testing.T) {
	ctx := context.Background()
	svc := vellum.New()

	_, err := svc.CreateTemplate(ctx, "greeting", "Greeting",
		"# Hello\n\nDear {{name}}.", greetingSchema(t), "")
	require.NoError(t, err)

	result, err := svc.Render(ctx, "greeting", map[string]any{"name": "Ada"}, nil)
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.True(t, bytes.HasPrefix(result.PDF, []byte("%PDF")))
	assert.Empty(t, result.Diagnostics)
}

func TestRender_ValidationFailureNeverCompiles(t *testing.T) {
	ctx := context.Background()
	svc := vellum.New()

	_, err := svc.CreateTemplate(ctx, "greeting", "Greeting",
		"Dear {{name}}.", greetingSchema(t), "")
	require.NoError(t, err)

	_, err = svc.Render(ctx, "greeting", map[string]any{}, nil)
	require.Error(t, err)
	assert.NotNil(t, schema.ValidationErrors(err), "validation failures surface as schema errors")
}

func TestRender_UnknownTemplate(t *testing.T) {
	svc := vellum.New()

	_, err := svc.Render(context.Background(), "ghost", map[string]any{}, nil)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestUpdateEvictsCachedWorld(t *testing.T) {
	ctx := context.Background()
	svc := vellum.New()

	_, err := svc.CreateTemplate(ctx, "doc", "Doc", "old {{name}}", greetingSchema(t), "")
	require.NoError(t, err)

	first, err := svc.Render(ctx, "doc", map[string]any{"name": "Ada"}, nil)
	require.NoError(t, err)
	require.True(t, first.OK())

	source := "new {{name}} body"
	_, err = svc.UpdateTemplate(ctx, "doc", domain.TemplateUpdate{Source: &source})
	require.NoError(t, err)

	second, err := svc.Render(ctx, "doc", map[string]any{"name": "Ada"}, nil)
	require.NoError(t, err)
	require.True(t, second.OK())
	assert.NotEqual(t, first.PDF, second.PDF, "render must pick up the new source")
}

func TestWithoutWorldCacheStillRenders(t *testing.T) {
	ctx := context.Background()
	svc := vellum.New(vellum.WithoutWorldCache())

	_, err := svc.CreateTemplate(ctx, "doc", "Doc", "Dear {{name}}.", greetingSchema(t), "")
	require.NoError(t, err)

	cached := vellum.New()
	_, err = cached.CreateTemplate(ctx, "doc", "Doc", "Dear {{name}}.", greetingSchema(t), "")
	require.NoError(t, err)

	a, err := svc.Render(ctx, "doc", map[string]any{"name": "Ada"}, nil)
	require.NoError(t, err)
	b, err := cached.Render(ctx, "doc", map[string]any{"name": "Ada"}, nil)
	require.NoError(t, err)
	assert.Equal(t, a.PDF, b.PDF, "caching must not change the artifact")
}

func TestWithMetricsRegisters(t *testing.T) {
	ctx := context.Background()
	registry := prometheus.NewRegistry()
	svc := vellum.New(vellum.WithMetrics(registry))

	_, err := svc.CreateTemplate(ctx, "doc", "Doc", "plain body", schema.Schema{}, "")
	require.NoError(t, err)
	_, err = svc.Render(ctx, "doc", map[string]any{}, nil)
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "vellum_renders_total")
	assert.Contains(t, names, "vellum_render_duration_seconds")
}

func TestPackageLevelRender(t *testing.T) {
	tmpl := domain.NewTemplate("adhoc", "Adhoc", "## Note\n\n- {{name}}", greetingSchema(t))

	result, err := vellum.Render(context.Background(), tmpl, map[string]any{"name": "Ada"}, nil)
	require.NoError(t, err)
	assert.True(t, result.OK())
}

func TestTemplateFilesRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := vellum.New()

	_, err := svc.CreateTemplate(ctx, "doc", "Doc", "body", schema.Schema{}, "")
	require.NoError(t, err)

	font := []byte{0xDE, 0xAD}
	require.NoError(t, svc.SaveTemplateFile(ctx, "doc", "fonts/body.ttf", font))

	paths, err := svc.ListTemplateFiles(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []string{"fonts/body.ttf"}, paths)

	got, err := svc.GetTemplateFile(ctx, "doc", "fonts/body.ttf")
	require.NoError(t, err)
	assert.Equal(t, font, got)

	require.NoError(t, svc.DeleteTemplateFile(ctx, "doc", "fonts/body.ttf"))
	_, err = svc.GetTemplateFile(ctx, "doc", "fonts/body.ttf")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}
