package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vellum/internal/adapters/redis"
	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/ports"
	"github.com/aretw0/vellum/pkg/schema"
)

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	ports.RunTemplateStoreContract(t, store)
}

func TestRedisStore_PrefixIsolation(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	a := redis.NewFromClient(client, redis.WithPrefix("a:"))
	b := redis.NewFromClient(client, redis.WithPrefix("b:"))

	ports.RunTemplateStoreContract(t, a)
	ports.RunTemplateStoreContract(t, b)
}

func TestRedisStore_TTLExpiresTemplates(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	tmpl := domain.NewTemplate("ephemeral", "Ephemeral", "body", schema.Schema{})
	require.NoError(t, store.SaveTemplate(ctx, tmpl))

	_, err = store.GetTemplate(ctx, "ephemeral")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.GetTemplate(ctx, "ephemeral")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	// The index tolerates expired entries instead of reporting them.
	all, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
