package dsl

import (
	"fmt"

	"github.com/aretw0/keysort/pkg/adapters/memory"
	"github.com/aretw0/keysort/pkg/domain"
)

// Builder collects traits and items in declaration order.
type Builder struct {
	traits []domain.Trait
	items  []*ItemBuilder
}

// New creates a new dataset builder.
func New() *Builder {
	return &Builder{}
}

// Trait appends a trait to the order.
func (b *Builder) Trait(name, trueLabel, falseLabel string) *Builder {
	b.traits = append(b.traits, domain.Trait{Name: name, TrueLabel: trueLabel, FalseLabel: falseLabel})
	return b
}

// Item declares a new item.
func (b *Builder) Item(genus, species string) *ItemBuilder {
	ib := &ItemBuilder{
		item:    domain.NewItem(genus, species),
		builder: b,
	}
	b.items = append(b.items, ib)
	return ib
}

// Build checks the declarations and returns them as a memory loader.
// Duplicate trait names, duplicate items and observations given twice are errors.
func (b *Builder) Build() (*memory.Loader, error) {
	seen := make(map[string]bool, len(b.traits))
	for _, t := range b.traits {
		if seen[t.Name] {
			return nil, fmt.Errorf("trait %q: %w", t.Name, domain.ErrDuplicateTrait)
		}
		seen[t.Name] = true
	}

	items := make([]domain.Item, 0, len(b.items))
	names := make(map[string]bool, len(b.items))
	for _, ib := range b.items {
		if ib.err != nil {
			return nil, ib.err
		}
		if names[ib.item.Name()] {
			return nil, fmt.Errorf("item %q declared twice", ib.item.Name())
		}
		names[ib.item.Name()] = true
		items = append(items, ib.item)
	}

	return memory.NewLoader(b.traits, items), nil
}
