package dataset

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/keysort/pkg/domain"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path))
	}
}

// DecodeTraits parses a trait document. The trait order is the document order.
func DecodeTraits(data []byte, format Format) ([]domain.Trait, error) {
	var records []TraitRecord
	if err := decode(data, format, "traits", &records); err != nil {
		return nil, fmt.Errorf("decode traits: %w", err)
	}
	traits := make([]domain.Trait, len(records))
	for i, r := range records {
		traits[i] = r.Trait()
	}
	return traits, nil
}

// DecodeItems parses an item document, keeping document order.
func DecodeItems(data []byte, format Format) ([]domain.Item, error) {
	var records []ItemRecord
	if err := decode(data, format, "items", &records); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	items := make([]domain.Item, 0, len(records))
	for i, r := range records {
		item, err := r.Item()
		if err != nil {
			return nil, fmt.Errorf("decode items: entry %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// decode reads the document into a generic value, unwraps the optional
// envelope and maps the result onto out.
func decode(data []byte, format Format, envelope string, out any) error {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	if m, ok := raw.(map[string]any); ok {
		inner, found := m[envelope]
		if !found {
			return fmt.Errorf("expected a list or an object with %q", envelope)
		}
		raw = inner
	}
	if raw == nil {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
