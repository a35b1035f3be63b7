package dataset

import (
	"fmt"

	"github.com/aretw0/keysort/pkg/domain"
)

// TraitRecord is the on-disk shape of a trait.
// TrueOption and FalseOption are accepted as older spellings of the labels.
type TraitRecord struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	TrueLabel   string `json:"true_label,omitempty" yaml:"true_label,omitempty" mapstructure:"true_label"`
	FalseLabel  string `json:"false_label,omitempty" yaml:"false_label,omitempty" mapstructure:"false_label"`
	TrueOption  string `json:"true_option,omitempty" yaml:"true_option,omitempty" mapstructure:"true_option"`
	FalseOption string `json:"false_option,omitempty" yaml:"false_option,omitempty" mapstructure:"false_option"`
}

// Trait converts the record.
func (r TraitRecord) Trait() domain.Trait {
	t := domain.Trait{Name: r.Name, TrueLabel: r.TrueLabel, FalseLabel: r.FalseLabel}
	if t.TrueLabel == "" {
		t.TrueLabel = r.TrueOption
	}
	if t.FalseLabel == "" {
		t.FalseLabel = r.FalseOption
	}
	return t
}

// Characteristic is one {name, value} observation of an item.
// Value is a string label or a boolean outcome.
type Characteristic struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Value any    `json:"value" yaml:"value" mapstructure:"value"`
}

// ItemRecord is the on-disk shape of an item.
type ItemRecord struct {
	Genus           string           `json:"genus" yaml:"genus" mapstructure:"genus"`
	Species         string           `json:"species" yaml:"species" mapstructure:"species"`
	Description     string           `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Characteristics []Characteristic `json:"characteristics,omitempty" yaml:"characteristics,omitempty" mapstructure:"characteristics"`
	Traits          []Characteristic `json:"traits,omitempty" yaml:"traits,omitempty" mapstructure:"traits"`
}

// Item converts the record. Characteristics and Traits are merged; a name
// given twice is an error.
func (r ItemRecord) Item() (domain.Item, error) {
	item := domain.NewItem(r.Genus, r.Species)
	item.Description = r.Description
	for _, c := range append(append([]Characteristic(nil), r.Characteristics...), r.Traits...) {
		if c.Name == "" {
			return domain.Item{}, fmt.Errorf("item %q: characteristic without a name", item.Name())
		}
		if _, dup := item.Traits[c.Name]; dup {
			return domain.Item{}, fmt.Errorf("item %q: characteristic %q given twice", item.Name(), c.Name)
		}
		obs, err := Observe(c.Value)
		if err != nil {
			return domain.Item{}, fmt.Errorf("item %q: characteristic %q: %w", item.Name(), c.Name, err)
		}
		item.Traits[c.Name] = obs
	}
	return item, nil
}

// Observe turns a decoded value into an observation.
func Observe(v any) (domain.Observation, error) {
	switch val := v.(type) {
	case string:
		return domain.Label(val), nil
	case bool:
		return domain.Outcome(val), nil
	case nil:
		return domain.Observation{}, fmt.Errorf("missing value")
	default:
		return domain.Observation{}, fmt.Errorf("unsupported value %v (%T): want a label or a boolean", v, v)
	}
}
