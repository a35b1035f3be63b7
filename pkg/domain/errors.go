package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnrecognizedValue is returned when an observed value matches neither trait label.
	ErrUnrecognizedValue = errors.New("unrecognized trait value")

	// ErrPartialCoverage is returned when some items at a node carry the node's trait and others do not.
	ErrPartialCoverage = errors.New("partial trait coverage")

	// ErrUnresolved is returned in strict mode when traits run out with items still undistinguished.
	ErrUnresolved = errors.New("traits exhausted with unresolved items")

	// ErrNoTraits is returned when the trait order is empty.
	ErrNoTraits = errors.New("trait order is empty")

	// ErrDuplicateTrait is returned when two traits share a name.
	ErrDuplicateTrait = errors.New("duplicate trait name")

	// ErrNoItems is returned when there is nothing to build a key from.
	ErrNoItems = errors.New("item collection is empty")

	// ErrKeyFrozen is returned when a finished key is mutated.
	ErrKeyFrozen = errors.New("key is frozen")

	// ErrNodeNotFound is returned when a node identity is not in the key.
	ErrNodeNotFound = errors.New("node not found")

	// ErrMissingAnswer is returned when an identification needs an answer that was not given.
	ErrMissingAnswer = errors.New("missing answer")

	// ErrNoMatch is returned when the answers lead to an empty branch.
	ErrNoMatch = errors.New("no item matches the answers")

	// ErrKeyNotFound is returned when a key ID cannot be found in the store.
	ErrKeyNotFound = errors.New("key not found")
)

// BuildError describes why key construction stopped.
// Kind is one of the sentinel errors above and is matched by errors.Is.
type BuildError struct {
	Kind    error
	NodeID  NodeID
	Trait   string
	Item    string
	Value   string
	Present []string
	Absent  []string
	Err     error
}

func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "build key: %v", e.Kind)
	fmt.Fprintf(&b, " at node %d", e.NodeID)
	if e.Trait != "" {
		fmt.Fprintf(&b, " (trait %q)", e.Trait)
	}
	if e.Item != "" {
		fmt.Fprintf(&b, ": item %q", e.Item)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " has value %q", e.Value)
	}
	if len(e.Absent) > 0 {
		fmt.Fprintf(&b, ": present on [%s], absent on [%s]",
			strings.Join(e.Present, ", "), strings.Join(e.Absent, ", "))
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *BuildError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
