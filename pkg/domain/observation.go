package domain

import "strconv"

// ObservationKind enumerates the closed set of ways an item can record a trait.
type ObservationKind string

const (
	// ObservationLabel holds a raw value compared against the trait labels.
	ObservationLabel ObservationKind = "label"
	// ObservationOutcome holds an outcome that needs no interpretation.
	ObservationOutcome ObservationKind = "outcome"
)

// Observation is the value an item carries for one trait.
type Observation struct {
	Kind    ObservationKind `json:"kind"`
	Value   string          `json:"value,omitempty"`
	Outcome bool            `json:"outcome,omitempty"`
}

// Label creates an observation holding a raw label.
func Label(value string) Observation {
	return Observation{Kind: ObservationLabel, Value: value}
}

// Outcome creates an observation that decides a trait directly.
func Outcome(outcome bool) Observation {
	return Observation{Kind: ObservationOutcome, Outcome: outcome}
}

func (o Observation) String() string {
	if o.Kind == ObservationOutcome {
		return strconv.FormatBool(o.Outcome)
	}
	return o.Value
}
