package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrait_Evaluate(t *testing.T) {
	arrangement := Trait{Name: "arrangement", TrueLabel: "opposite", FalseLabel: "alternate"}

	tests := []struct {
		name    string
		raw     string
		want    bool
		wantErr error
	}{
		{name: "true label", raw: "opposite", want: true},
		{name: "false label", raw: "alternate", want: false},
		{name: "unknown label", raw: "whorled", wantErr: ErrUnrecognizedValue},
		{name: "labels are case sensitive", raw: "Opposite", wantErr: ErrUnrecognizedValue},
		{name: "empty value", raw: "", wantErr: ErrUnrecognizedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := arrangement.Evaluate(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrait_Decide(t *testing.T) {
	leafType := Trait{Name: "leaf_type", TrueLabel: "compound", FalseLabel: "simple"}

	got, err := leafType.Decide(Outcome(true))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = leafType.Decide(Outcome(false))
	require.NoError(t, err)
	assert.False(t, got)

	got, err = leafType.Decide(Label("compound"))
	require.NoError(t, err)
	assert.True(t, got)

	_, err = leafType.Decide(Label("lobed"))
	assert.ErrorIs(t, err, ErrUnrecognizedValue)

	_, err = leafType.Decide(Observation{Kind: "weighted"})
	assert.Error(t, err)
}

func TestTrait_Label(t *testing.T) {
	tr := Trait{Name: "margin", TrueLabel: "toothed", FalseLabel: "entire"}
	assert.Equal(t, "toothed", tr.Label(true))
	assert.Equal(t, "entire", tr.Label(false))
}

func TestItem_TraitValue(t *testing.T) {
	maple := NewItem("Acer", "rubrum").
		With("arrangement", Label("opposite")).
		With("evergreen", Outcome(false))

	o, ok := maple.TraitValue("arrangement")
	require.True(t, ok)
	assert.Equal(t, Label("opposite"), o)

	o, ok = maple.TraitValue("evergreen")
	require.True(t, ok)
	assert.Equal(t, ObservationOutcome, o.Kind)

	_, ok = maple.TraitValue("bark")
	assert.False(t, ok, "absent traits must be reported as absent")

	assert.Equal(t, "Acer rubrum", maple.Name())
}

func TestItem_WithDoesNotAlias(t *testing.T) {
	base := NewItem("Acer", "rubrum").With("arrangement", Label("opposite"))
	changed := base.With("arrangement", Label("alternate"))

	o, _ := base.TraitValue("arrangement")
	assert.Equal(t, "opposite", o.Value)
	o, _ = changed.TraitValue("arrangement")
	assert.Equal(t, "alternate", o.Value)
}
