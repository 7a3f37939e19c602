package file_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vellum/internal/adapters/file"
	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/ports"
	"github.com/aretw0/vellum/pkg/schema"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ports.RunTemplateStoreContract(t, store)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	s, err := schema.New()
	require.NoError(t, err)
	require.NoError(t, store.SaveTemplate(ctx, domain.NewTemplate("t", "T", "src", s)))

	err = store.SaveTemplateFile(ctx, "t", "../../etc/passwd", []byte("nope"))
	assert.Error(t, err, "asset paths must not escape the template directory")

	_, err = store.GetTemplateFile(ctx, "t", "../t.json")
	assert.Error(t, err)
}

func TestFileStore_RejectsBadTemplateID(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	s, err := schema.New()
	require.NoError(t, err)

	err = store.SaveTemplate(ctx, domain.NewTemplate("../escape", "T", "src", s))
	assert.Error(t, err)

	_, err = store.GetTemplate(ctx, "a/b")
	assert.Error(t, err)
}

func TestFileStore_NestedAssetPaths(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	s, err := schema.New()
	require.NoError(t, err)
	require.NoError(t, store.SaveTemplate(ctx, domain.NewTemplate("t", "T", "src", s)))

	require.NoError(t, store.SaveTemplateFile(ctx, "t", "fonts/serif/body.ttf", []byte{1, 2, 3}))

	paths, err := store.ListTemplateFiles(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"fonts/serif/body.ttf"}, paths)
}
