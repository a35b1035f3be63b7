package domain

import "fmt"

// Answerer supplies the outcome of a trait question during identification.
type Answerer func(t Trait) (bool, error)

// Step is one answered question on the way through a key.
type Step struct {
	NodeID NodeID `json:"node_id"`
	Trait  string `json:"trait"`
	Answer bool   `json:"answer"`
	Label  string `json:"label"`
}

// Identification is the outcome of walking a key.
// Item is set when a leaf was reached; Candidates when an unresolved node was reached.
type Identification struct {
	NodeID     NodeID `json:"node_id"`
	Path       []Step `json:"path"`
	Item       *Item  `json:"item,omitempty"`
	Candidates []Item `json:"candidates,omitempty"`
}

// Resolved reports whether a single item was identified.
func (id *Identification) Resolved() bool {
	return id.Item != nil
}

// Identify walks the key from the root, asking answer at every option node.
// When the answers lead to an empty branch the partial identification is
// returned together with ErrNoMatch.
func (k *Key) Identify(answer Answerer) (*Identification, error) {
	n := k.Root()
	if n == nil {
		return nil, fmt.Errorf("%w: empty key", ErrNodeNotFound)
	}
	result := &Identification{}
	for {
		result.NodeID = n.ID
		if n.IsLeaf() {
			item := *n.Item
			result.Item = &item
			return result, nil
		}
		if n.Trait == nil || !n.HasChildren() {
			result.Candidates = append([]Item(nil), n.Possibilities...)
			return result, nil
		}

		outcome, err := answer(*n.Trait)
		if err != nil {
			return result, err
		}
		result.Path = append(result.Path, Step{
			NodeID: n.ID,
			Trait:  n.Trait.Name,
			Answer: outcome,
			Label:  n.Trait.Label(outcome),
		})

		next, ok := n.Child(outcome)
		if !ok {
			return result, fmt.Errorf("%w: %s is %q at node %d", ErrNoMatch, n.Trait.Name, n.Trait.Label(outcome), n.ID)
		}
		if n, ok = k.nodes[next]; !ok {
			return result, fmt.Errorf("%w: %d", ErrNodeNotFound, next)
		}
	}
}

// AnswerMap answers questions from a trait-name to outcome map.
func AnswerMap(answers map[string]bool) Answerer {
	return func(t Trait) (bool, error) {
		v, ok := answers[t.Name]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrMissingAnswer, t.Name)
		}
		return v, nil
	}
}

// LabelAnswers answers questions from a trait-name to label map,
// evaluating each label against the trait.
func LabelAnswers(labels map[string]string) Answerer {
	return func(t Trait) (bool, error) {
		v, ok := labels[t.Name]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrMissingAnswer, t.Name)
		}
		return t.Evaluate(v)
	}
}
