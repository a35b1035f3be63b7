package dsl

import (
	"fmt"

	"github.com/aretw0/keysort/pkg/domain"
)

// ItemBuilder provides a fluent API for configuring an item.
type ItemBuilder struct {
	item    domain.Item
	builder *Builder
	err     error
}

// Has records a label observation, matched against the trait labels at build time.
func (i *ItemBuilder) Has(trait, label string) *ItemBuilder {
	return i.observe(trait, domain.Label(label))
}

// Is records an outcome observation.
func (i *ItemBuilder) Is(trait string, outcome bool) *ItemBuilder {
	return i.observe(trait, domain.Outcome(outcome))
}

// Describe sets the free-text description shown with the item.
func (i *ItemBuilder) Describe(text string) *ItemBuilder {
	i.item.Description = text
	return i
}

// Item declares the next item on the same builder.
func (i *ItemBuilder) Item(genus, species string) *ItemBuilder {
	return i.builder.Item(genus, species)
}

func (i *ItemBuilder) observe(trait string, o domain.Observation) *ItemBuilder {
	if _, dup := i.item.Traits[trait]; dup && i.err == nil {
		i.err = fmt.Errorf("item %q: trait %q observed twice", i.item.Name(), trait)
	}
	i.item.Traits[trait] = o
	return i
}
