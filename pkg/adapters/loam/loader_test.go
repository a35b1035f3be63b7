package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keysort/internal/testutils"
	"github.com/aretw0/keysort/pkg/domain"
)

func seed(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for filename, content := range files {
		err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644)
		require.NoError(t, err)
	}
}

func TestLoader_LoadItems(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	seed(t, tmpDir, map[string]string{
		"b-fraxinus.md": `---
genus: Fraxinus
species: americana
traits:
  - name: arrangement
    value: opposite
  - name: leaf_type
    value: compound
---
White ash.`,
		"a-acer.md": `---
genus: Acer
species: rubrum
characteristics:
  - name: arrangement
    value: opposite
  - name: leaf_type
    value: simple
---
Red maple.
`,
	})

	loader := New(loam.NewTypedRepository[ItemMetadata](repo))
	items, err := loader.LoadItems(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, []string{"Acer rubrum", "Fraxinus americana"}, domain.ItemNames(items), "ordered by document ID")
	assert.Equal(t, "Red maple.", items[0].Description)
	assert.Equal(t, domain.Label("compound"), items[1].Traits["leaf_type"])
}

func TestLoader_BooleanTraitAndDescriptionOverride(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	seed(t, tmpDir, map[string]string{
		"aloe.md": `---
genus: Aloe
species: vera
description: Succulent.
traits:
  - name: succulent
    value: true
---
Ignored body.`,
	})

	items, err := New(loam.NewTypedRepository[ItemMetadata](repo)).LoadItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Succulent.", items[0].Description)
	assert.Equal(t, domain.Outcome(true), items[0].Traits["succulent"])
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name: "missing genus",
			files: map[string]string{"x.md": `---
species: rubrum
---
`},
			want: "genus is required",
		},
		{
			name: "collision",
			files: map[string]string{
				"one.md": "---\ngenus: Acer\nspecies: rubrum\n---\n",
				"two.md": "---\ngenus: Acer\nspecies: rubrum\n---\n",
			},
			want: "collision detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir, repo := testutils.SetupTestRepo(t)
			seed(t, tmpDir, tt.files)

			_, err := New(loam.NewTypedRepository[ItemMetadata](repo)).LoadItems(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, map[string]string{
		"acer.md": "---\ngenus: Acer\nspecies: rubrum\n---\n",
	})

	loader, err := Open(dir)
	require.NoError(t, err)
	items, err := loader.LoadItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acer rubrum"}, domain.ItemNames(items))
}
