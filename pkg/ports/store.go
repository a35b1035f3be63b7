package ports

import (
	"context"

	"github.com/aretw0/keysort/pkg/domain"
)

// KeyStore persists built keys so identical datasets are not rebuilt.
type KeyStore interface {
	// Save persists the key under id, replacing any previous value.
	Save(ctx context.Context, id string, key *domain.Key) error

	// Load retrieves the key stored under id.
	// Returns domain.ErrKeyNotFound if nothing is stored.
	Load(ctx context.Context, id string) (*domain.Key, error)

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored key IDs.
	List(ctx context.Context) ([]string, error)
}
