package loam

import "github.com/aretw0/keysort/pkg/adapters/dataset"

// ItemMetadata is the frontmatter of an item document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type ItemMetadata struct {
	Genus   string `json:"genus" mapstructure:"genus"`
	Species string `json:"species" mapstructure:"species"`

	// Description overrides the document body when set.
	Description string `json:"description" mapstructure:"description"`

	Traits          []dataset.Characteristic `json:"traits" mapstructure:"traits"`
	Characteristics []dataset.Characteristic `json:"characteristics" mapstructure:"characteristics"`
}
