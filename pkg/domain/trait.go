package domain

import "fmt"

// Trait is a yes/no question used to split a set of items.
// It is an immutable value, shared read-only by every node that asks it.
type Trait struct {
	Name       string `json:"name" yaml:"name"`
	TrueLabel  string `json:"true_label" yaml:"true_label"`
	FalseLabel string `json:"false_label" yaml:"false_label"`
}

// Label returns the display label for the given outcome.
func (t Trait) Label(outcome bool) string {
	if outcome {
		return t.TrueLabel
	}
	return t.FalseLabel
}

// Evaluate maps a raw observed value to its outcome.
// It fails with ErrUnrecognizedValue when the value matches neither label.
func (t Trait) Evaluate(raw string) (bool, error) {
	switch raw {
	case t.TrueLabel:
		return true, nil
	case t.FalseLabel:
		return false, nil
	}
	return false, fmt.Errorf("%w: trait %q expects %q or %q, got %q",
		ErrUnrecognizedValue, t.Name, t.TrueLabel, t.FalseLabel, raw)
}

// Decide resolves an observation against this trait.
func (t Trait) Decide(o Observation) (bool, error) {
	switch o.Kind {
	case ObservationOutcome:
		return o.Outcome, nil
	case ObservationLabel:
		return t.Evaluate(o.Value)
	default:
		return false, fmt.Errorf("trait %q: unknown observation kind %q", t.Name, o.Kind)
	}
}
