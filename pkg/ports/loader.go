package ports

import (
	"context"

	"github.com/aretw0/keysort/pkg/domain"
)

// TraitLoader supplies the trait order used to build a key.
// Order matters: the first trait is asked at the root.
type TraitLoader interface {
	LoadTraits(ctx context.Context) ([]domain.Trait, error)
}

// ItemLoader supplies the items a key distinguishes.
// Implementations must return items in a stable order so that identical
// sources produce identical keys.
type ItemLoader interface {
	LoadItems(ctx context.Context) ([]domain.Item, error)
}

// DatasetLoader is a source that provides both traits and items.
type DatasetLoader interface {
	TraitLoader
	ItemLoader
}
