package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keysort/pkg/domain"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeInput(strings.Repeat("a", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "4")
	_, err := SanitizeInput("abcde")
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_Cleaning(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain", "opposite", "opposite"},
		{"Trailing newline", "opposite\r\n", "opposite"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Inner tab", "a\tb", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("bad\xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestParseAnswer(t *testing.T) {
	trait := domain.Trait{Name: "arrangement", TrueLabel: "opposite", FalseLabel: "alternate"}

	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"opposite", true, false},
		{"alternate", false, false},
		{" Opposite ", true, false},
		{"Y", true, false},
		{"no", false, false},
		{"whorled", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAnswer(trait, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnrecognizedValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAnswer_LabelsBeatYesNo(t *testing.T) {
	trait := domain.Trait{Name: "x", TrueLabel: "no", FalseLabel: "yes"}
	got, err := ParseAnswer(trait, "no")
	require.NoError(t, err)
	assert.True(t, got)
}
