package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/keysort/pkg/domain"
)

// ParseAnswer interprets a typed answer for trait.
// The trait's own labels win (exact, then case-insensitive); otherwise
// yes/no words answer the true label question.
func ParseAnswer(trait domain.Trait, raw string) (bool, error) {
	clean, err := SanitizeInput(raw)
	if err != nil {
		return false, err
	}
	if outcome, err := trait.Evaluate(clean); err == nil {
		return outcome, nil
	}
	switch {
	case strings.EqualFold(clean, trait.TrueLabel):
		return true, nil
	case strings.EqualFold(clean, trait.FalseLabel):
		return false, nil
	}
	switch strings.ToLower(clean) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q (expected %s or %s)", domain.ErrUnrecognizedValue, clean, trait.TrueLabel, trait.FalseLabel)
}
