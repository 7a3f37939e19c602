package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/schema"
)

// RunTemplateStoreContract runs a suite of tests to verify that a
// TemplateStore implementation adheres to the defined interface contract.
func RunTemplateStoreContract(t *testing.T, store TemplateStore) {
	ctx := context.Background()
	id := domain.TemplateID("contract-test-" + time.Now().Format("20060102150405"))

	newTemplate := func(tid domain.TemplateID) domain.Template {
		s, err := schema.New(
			schema.Field{Name: "name", Type: schema.TypeText, Required: true},
		)
		require.NoError(t, err)
		return domain.NewTemplate(tid, "Contract", "Hello {{name}}", s)
	}

	t.Run("Save and Get", func(t *testing.T) {
		tmpl := newTemplate(id).WithDescription("contract fixture")

		err := store.SaveTemplate(ctx, tmpl)
		require.NoError(t, err, "SaveTemplate should not return error")

		loaded, err := store.GetTemplate(ctx, id)
		require.NoError(t, err, "GetTemplate should not return error")
		assert.Equal(t, tmpl.ID, loaded.ID)
		assert.Equal(t, tmpl.Source, loaded.Source)
		assert.Equal(t, tmpl.Description, loaded.Description)
		assert.Len(t, loaded.Schema.Fields, 1)
		// Timestamps survive the round trip (comparison at second
		// precision tolerates serialization truncation).
		assert.WithinDuration(t, tmpl.CreatedAt, loaded.CreatedAt, time.Second)
	})

	t.Run("Save replaces by ID", func(t *testing.T) {
		tmpl := newTemplate(id)
		require.NoError(t, store.SaveTemplate(ctx, tmpl))

		newSource := "Goodbye {{name}}"
		updated := tmpl.Apply(domain.TemplateUpdate{Source: &newSource})
		require.NoError(t, store.SaveTemplate(ctx, updated))

		loaded, err := store.GetTemplate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, newSource, loaded.Source)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.GetTemplate(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.SaveTemplate(ctx, newTemplate(id)))

		err := store.DeleteTemplate(ctx, id)
		require.NoError(t, err, "DeleteTemplate should not return error")

		_, err = store.GetTemplate(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound, "Get after Delete should return ErrTemplateNotFound")
	})

	t.Run("Delete Non-Existent", func(t *testing.T) {
		err := store.DeleteTemplate(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.SaveTemplate(ctx, newTemplate(id1)))
		require.NoError(t, store.SaveTemplate(ctx, newTemplate(id2)))

		defer func() {
			_ = store.DeleteTemplate(ctx, id1)
			_ = store.DeleteTemplate(ctx, id2)
		}()

		templates, err := store.ListTemplates(ctx)
		require.NoError(t, err)

		ids := make([]domain.TemplateID, 0, len(templates))
		for _, tmpl := range templates {
			ids = append(ids, tmpl.ID)
		}
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})

	t.Run("Template Files", func(t *testing.T) {
		require.NoError(t, store.SaveTemplate(ctx, newTemplate(id)))
		defer func() { _ = store.DeleteTemplate(ctx, id) }()

		font := []byte{0x00, 0x01, 0xDE, 0xAD}
		require.NoError(t, store.SaveTemplateFile(ctx, id, "fonts/body.ttf", font))

		data, err := store.GetTemplateFile(ctx, id, "fonts/body.ttf")
		require.NoError(t, err)
		assert.Equal(t, font, data)

		paths, err := store.ListTemplateFiles(ctx, id)
		require.NoError(t, err)
		assert.Contains(t, paths, "fonts/body.ttf")

		require.NoError(t, store.DeleteTemplateFile(ctx, id, "fonts/body.ttf"))
		_, err = store.GetTemplateFile(ctx, id, "fonts/body.ttf")
		assert.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("File Non-Existent", func(t *testing.T) {
		require.NoError(t, store.SaveTemplate(ctx, newTemplate(id)))
		defer func() { _ = store.DeleteTemplate(ctx, id) }()

		_, err := store.GetTemplateFile(ctx, id, "missing.png")
		assert.ErrorIs(t, err, domain.ErrFileNotFound)

		err = store.DeleteTemplateFile(ctx, id, "missing.png")
		assert.ErrorIs(t, err, domain.ErrFileNotFound)
	})
}
