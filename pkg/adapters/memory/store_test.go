package memory_test

import (
	"testing"

	"github.com/aretw0/keysort/pkg/adapters/memory"
	"github.com/aretw0/keysort/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunKeyStoreContract(t, store)
}
