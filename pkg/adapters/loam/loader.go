// Package loam reads items from a Loam document repository: one markdown (or
// JSON/YAML) document per item, frontmatter for identity and traits, body as
// the description.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/keysort/pkg/adapters/dataset"
	"github.com/aretw0/keysort/pkg/domain"
)

// Loader adapts the Loam library to the ports.ItemLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[ItemMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ItemMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
// Strict mode keeps numeric frontmatter as json.Number, which the item
// decoder then rejects instead of silently accepting floats.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ItemMetadata](repo)), nil
}

// LoadItems lists every document and converts it to an item, ordered by
// document ID.
func (l *Loader) LoadItems(ctx context.Context) ([]domain.Item, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})

	items := make([]domain.Item, 0, len(docs))
	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record := dataset.ItemRecord{
			Genus:           doc.Data.Genus,
			Species:         doc.Data.Species,
			Description:     doc.Data.Description,
			Traits:          doc.Data.Traits,
			Characteristics: doc.Data.Characteristics,
		}
		if record.Description == "" {
			record.Description = strings.TrimSpace(doc.Content)
		}
		if record.Genus == "" {
			return nil, fmt.Errorf("document %s: genus is required", doc.ID)
		}

		item, err := record.Item()
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		if prev, dup := seen[item.Name()]; dup {
			return nil, fmt.Errorf("collision detected: %q is defined in both '%s' and '%s'", item.Name(), prev, doc.ID)
		}
		seen[item.Name()] = doc.ID
		items = append(items, item)
	}
	return items, nil
}
