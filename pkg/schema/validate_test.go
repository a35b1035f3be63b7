package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keysort/pkg/domain"
	"github.com/aretw0/keysort/pkg/schema"
)

var arrangement = domain.Trait{Name: "arrangement", TrueLabel: "opposite", FalseLabel: "alternate"}

func keys(err error) []string {
	var out []string
	for _, e := range schema.ValidationErrors(err) {
		var ve *schema.ValidationError
		if errors.As(e, &ve) {
			out = append(out, ve.Key)
		}
	}
	return out
}

func TestValidateTraits(t *testing.T) {
	tests := []struct {
		name     string
		traits   []domain.Trait
		wantKeys []string
	}{
		{
			name:   "Valid",
			traits: []domain.Trait{arrangement, {Name: "leaf_type", TrueLabel: "compound", FalseLabel: "simple"}},
		},
		{
			name:     "Empty",
			traits:   nil,
			wantKeys: []string{"traits"},
		},
		{
			name:     "Missing Fields",
			traits:   []domain.Trait{{}},
			wantKeys: []string{"traits[0].name", "traits[0].true_label", "traits[0].false_label"},
		},
		{
			name:     "Duplicate And Same Labels",
			traits:   []domain.Trait{arrangement, arrangement, {Name: "x", TrueLabel: "a", FalseLabel: "a"}},
			wantKeys: []string{"traits[1].name", "traits[2].false_label"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateTraits(tt.traits)
			if tt.wantKeys == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKeys, keys(err))
		})
	}
}

func TestValidateItems(t *testing.T) {
	items := []domain.Item{
		domain.NewItem("Acer", "rubrum").With("arrangement", domain.Label("opposite")),
		domain.NewItem("", "florida").With("arrangement", domain.Label("whorled")),
		domain.NewItem("Prunus", "serotina").With("unlisted", domain.Label("anything")),
		domain.NewItem("Pinus", "strobus"),
	}

	err := schema.ValidateItems(items, []domain.Trait{arrangement})
	require.Error(t, err)
	assert.Equal(t, []string{"items[1].genus", "items[1].arrangement"}, keys(err))
	assert.Contains(t, err.Error(), "whorled")

	assert.Error(t, schema.ValidateItems(nil, []domain.Trait{arrangement}))
}

func TestValidateDataset_Flattens(t *testing.T) {
	err := schema.ValidateDataset(
		[]domain.Item{domain.NewItem("", "x")},
		[]domain.Trait{{Name: "a", TrueLabel: "y", FalseLabel: ""}},
	)
	require.Error(t, err)
	assert.Equal(t, []string{"traits[0].false_label", "items[0].genus"}, keys(err))
	assert.Contains(t, err.Error(), "2 validation errors")
}
