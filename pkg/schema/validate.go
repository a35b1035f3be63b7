package schema

import (
	"fmt"

	"github.com/aretw0/keysort/pkg/domain"
)

// ValidateTraits checks a trait order.
func ValidateTraits(traits []domain.Trait) error {
	var errs []error
	if len(traits) == 0 {
		errs = append(errs, &ValidationError{Key: "traits", Reason: "at least one trait is required"})
	}

	seen := make(map[string]int, len(traits))
	for i, t := range traits {
		field := func(name string) string { return fmt.Sprintf("traits[%d].%s", i, name) }

		if t.Name == "" {
			errs = append(errs, &ValidationError{Key: field("name"), Reason: "required"})
		} else if first, dup := seen[t.Name]; dup {
			errs = append(errs, &ValidationError{
				Key:    field("name"),
				Reason: fmt.Sprintf("duplicates traits[%d]", first),
				Value:  t.Name,
			})
		} else {
			seen[t.Name] = i
		}

		if t.TrueLabel == "" {
			errs = append(errs, &ValidationError{Key: field("true_label"), Reason: "required"})
		}
		if t.FalseLabel == "" {
			errs = append(errs, &ValidationError{Key: field("false_label"), Reason: "required"})
		}
		if t.TrueLabel != "" && t.TrueLabel == t.FalseLabel {
			errs = append(errs, &ValidationError{
				Key:    field("false_label"),
				Reason: "must differ from true_label",
				Value:  t.FalseLabel,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateItems checks items against the trait definitions they refer to.
func ValidateItems(items []domain.Item, traits []domain.Trait) error {
	byName := make(map[string]domain.Trait, len(traits))
	for _, t := range traits {
		byName[t.Name] = t
	}

	var errs []error
	if len(items) == 0 {
		errs = append(errs, &ValidationError{Key: "items", Reason: "at least one item is required"})
	}

	for i, item := range items {
		if item.Genus == "" {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("items[%d].genus", i), Reason: "required"})
		}
		// Walk the trait order rather than the map so errors come out in a stable order.
		for _, t := range traits {
			obs, ok := item.TraitValue(t.Name)
			if !ok {
				continue
			}
			if _, err := byName[t.Name].Decide(obs); err != nil {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("items[%d].%s", i, t.Name),
					Reason: fmt.Sprintf("expected %q or %q", t.TrueLabel, t.FalseLabel),
					Value:  obs.String(),
				})
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateDataset runs both checks and merges their failures.
func ValidateDataset(items []domain.Item, traits []domain.Trait) error {
	var errs []error
	for _, err := range []error{ValidateTraits(traits), ValidateItems(items, traits)} {
		if err == nil {
			continue
		}
		if nested := ValidationErrors(err); nested != nil {
			errs = append(errs, nested...)
		} else {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
