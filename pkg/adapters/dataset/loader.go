package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/keysort/pkg/domain"
)

// FileLoader reads traits and items from two files on disk.
// Either path may be empty when the caller only needs the other half.
type FileLoader struct {
	TraitsPath string
	ItemsPath  string
}

// NewFileLoader creates a loader for the given files.
func NewFileLoader(traitsPath, itemsPath string) *FileLoader {
	return &FileLoader{TraitsPath: traitsPath, ItemsPath: itemsPath}
}

// LoadTraits implements ports.TraitLoader.
func (l *FileLoader) LoadTraits(ctx context.Context) ([]domain.Trait, error) {
	data, format, err := read(ctx, l.TraitsPath)
	if err != nil {
		return nil, err
	}
	return DecodeTraits(data, format)
}

// LoadItems implements ports.ItemLoader.
func (l *FileLoader) LoadItems(ctx context.Context) ([]domain.Item, error) {
	data, format, err := read(ctx, l.ItemsPath)
	if err != nil {
		return nil, err
	}
	return DecodeItems(data, format)
}

func read(ctx context.Context, path string) ([]byte, Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if path == "" {
		return nil, "", fmt.Errorf("no dataset path configured")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read dataset: %w", err)
	}
	return data, format, nil
}
