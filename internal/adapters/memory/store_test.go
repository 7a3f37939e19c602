package memory_test

import (
	"testing"

	"github.com/aretw0/vellum/internal/adapters/memory"
	"github.com/aretw0/vellum/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunTemplateStoreContract(t, store)
}
