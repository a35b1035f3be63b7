package domain

// NodeID identifies a node inside a Key. The root is always 0.
type NodeID int

// RootID is the identity of every key's root node.
const RootID NodeID = 0

// NodeKind tags the Node variant.
type NodeKind string

const (
	// NodeOption asks a trait question and has up to two children.
	NodeOption NodeKind = "option"
	// NodeLeaf holds exactly one resolved item.
	NodeLeaf NodeKind = "leaf"
)

// Node is a point in the key.
//
// Option nodes use Left (true outcome), Right (false outcome), Possibilities
// and Trait. Leaf nodes use Item only.
type Node struct {
	ID   NodeID   `json:"id"`
	Kind NodeKind `json:"kind"`

	Left          *NodeID `json:"left,omitempty"`
	Right         *NodeID `json:"right,omitempty"`
	Possibilities []Item  `json:"possibilities,omitempty"`
	Trait         *Trait  `json:"trait,omitempty"`

	Item *Item `json:"item,omitempty"`
}

// IsLeaf reports whether the node holds a resolved item.
func (n *Node) IsLeaf() bool {
	return n.Kind == NodeLeaf
}

// HasChildren reports whether an option node has at least one child.
func (n *Node) HasChildren() bool {
	return n.Left != nil || n.Right != nil
}

// Child returns the child for the given outcome, if any.
func (n *Node) Child(outcome bool) (NodeID, bool) {
	ref := n.Right
	if outcome {
		ref = n.Left
	}
	if ref == nil {
		return 0, false
	}
	return *ref, true
}

// Unresolved reports whether this option node is a childless node
// still holding more than one item.
func (n *Node) Unresolved() bool {
	return n.Kind == NodeOption && !n.HasChildren() && len(n.Possibilities) > 1
}
