package memory

import (
	"context"
	"sync"

	"github.com/aretw0/keysort/pkg/domain"
)

// Loader implements ports.TraitLoader and ports.ItemLoader over in-memory slices.
// Loads return copies, so callers may modify the result freely.
type Loader struct {
	mu     sync.RWMutex
	traits []domain.Trait
	items  []domain.Item
}

// NewLoader creates a loader holding the given dataset.
func NewLoader(traits []domain.Trait, items []domain.Item) *Loader {
	l := &Loader{}
	l.Set(traits, items)
	return l
}

// Set replaces the dataset.
func (l *Loader) Set(traits []domain.Trait, items []domain.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.traits = append([]domain.Trait(nil), traits...)
	l.items = append([]domain.Item(nil), items...)
}

// LoadTraits returns the trait order.
func (l *Loader) LoadTraits(ctx context.Context) ([]domain.Trait, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Trait(nil), l.traits...), nil
}

// LoadItems returns the items in insertion order.
func (l *Loader) LoadItems(ctx context.Context) ([]domain.Item, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Item(nil), l.items...), nil
}
