package domain

import "strings"

// Item is an entity to be identified by the key.
// Genus and Species are display identity only; they never influence partitioning.
type Item struct {
	Genus       string                 `json:"genus"`
	Species     string                 `json:"species"`
	Description string                 `json:"description,omitempty"`
	Traits      map[string]Observation `json:"traits,omitempty"`
}

// NewItem creates an item with an empty observation set.
func NewItem(genus, species string) Item {
	return Item{
		Genus:   genus,
		Species: species,
		Traits:  make(map[string]Observation),
	}
}

// With returns a copy of the item with the observation recorded for trait.
func (i Item) With(trait string, o Observation) Item {
	traits := make(map[string]Observation, len(i.Traits)+1)
	for k, v := range i.Traits {
		traits[k] = v
	}
	traits[trait] = o
	i.Traits = traits
	return i
}

// TraitValue returns the observation for the named trait.
// The boolean is false when the item carries no observation for it.
func (i Item) TraitValue(name string) (Observation, bool) {
	o, ok := i.Traits[name]
	return o, ok
}

// Name is the display identity, e.g. "Acer rubrum".
func (i Item) Name() string {
	return strings.TrimSpace(i.Genus + " " + i.Species)
}

func (i Item) String() string {
	return i.Name()
}

// ItemNames lists the display names of items in order.
func ItemNames(items []Item) []string {
	names := make([]string, len(items))
	for idx, it := range items {
		names[idx] = it.Name()
	}
	return names
}
