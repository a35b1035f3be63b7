package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Key is a dichotomous key: an arena of nodes addressed by NodeID.
//
// A key is grown by the builder through AddOption, AddLeaf, Link and Assign,
// then frozen. Identities are allocated from a monotonic counter and never
// reused. A frozen key is read-only and may be shared between goroutines.
type Key struct {
	nodes      map[NodeID]*Node
	next       NodeID
	frozen     bool
	unresolved []NodeID
}

// NewKey creates an empty, mutable key.
func NewKey() *Key {
	return &Key{nodes: make(map[NodeID]*Node)}
}

func (k *Key) alloc() NodeID {
	id := k.next
	k.next++
	return id
}

// AddOption appends an option node holding items and (optionally) a trait.
func (k *Key) AddOption(items []Item, trait *Trait) (NodeID, error) {
	if k.frozen {
		return 0, ErrKeyFrozen
	}
	id := k.alloc()
	k.nodes[id] = &Node{ID: id, Kind: NodeOption, Possibilities: items, Trait: trait}
	return id, nil
}

// AddLeaf appends a leaf node for a resolved item.
func (k *Key) AddLeaf(item Item) (NodeID, error) {
	if k.frozen {
		return 0, ErrKeyFrozen
	}
	id := k.alloc()
	k.nodes[id] = &Node{ID: id, Kind: NodeLeaf, Item: &item}
	return id, nil
}

// Link records child as the parent's true (left) or false (right) branch.
func (k *Key) Link(parent NodeID, outcome bool, child NodeID) error {
	if k.frozen {
		return ErrKeyFrozen
	}
	p, ok := k.nodes[parent]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, parent)
	}
	if _, ok := k.nodes[child]; !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, child)
	}
	if p.Kind != NodeOption {
		return fmt.Errorf("node %d is a leaf and cannot have children", parent)
	}
	slot := &p.Right
	if outcome {
		slot = &p.Left
	}
	if *slot != nil {
		return fmt.Errorf("node %d already has a child for outcome %t", parent, outcome)
	}
	c := child
	*slot = &c
	return nil
}

// Assign replaces the trait of an option node. A nil trait leaves it unassigned.
func (k *Key) Assign(id NodeID, trait *Trait) error {
	if k.frozen {
		return ErrKeyFrozen
	}
	n, ok := k.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	if n.Kind != NodeOption {
		return fmt.Errorf("node %d is a leaf and cannot ask a trait", id)
	}
	n.Trait = trait
	return nil
}

// Settle turns a childless option node holding exactly one item into a leaf
// for that item.
func (k *Key) Settle(id NodeID) error {
	if k.frozen {
		return ErrKeyFrozen
	}
	n, ok := k.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	if n.Kind != NodeOption || n.HasChildren() || len(n.Possibilities) != 1 {
		return fmt.Errorf("node %d does not hold a single unplaced item", id)
	}
	item := n.Possibilities[0]
	*n = Node{ID: id, Kind: NodeLeaf, Item: &item}
	return nil
}

// Freeze ends construction and records which option nodes are unresolved.
func (k *Key) Freeze() {
	if k.frozen {
		return
	}
	k.unresolved = k.unresolved[:0]
	for _, id := range k.IDs() {
		if k.nodes[id].Unresolved() {
			k.unresolved = append(k.unresolved, id)
		}
	}
	k.frozen = true
}

// Frozen reports whether construction has finished.
func (k *Key) Frozen() bool {
	return k.frozen
}

// Node returns the node with the given identity.
// The returned pointer must be treated as read-only.
func (k *Key) Node(id NodeID) (*Node, bool) {
	n, ok := k.nodes[id]
	return n, ok
}

// Root returns the root node, or nil for an empty key.
func (k *Key) Root() *Node {
	return k.nodes[RootID]
}

// Len returns the number of nodes.
func (k *Key) Len() int {
	return len(k.nodes)
}

// IDs returns all node identities in allocation order.
func (k *Key) IDs() []NodeID {
	ids := make([]NodeID, 0, len(k.nodes))
	for id := range k.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// Leaves returns the leaf nodes in allocation order.
func (k *Key) Leaves() []*Node {
	var leaves []*Node
	for _, id := range k.IDs() {
		if n := k.nodes[id]; n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Unresolved returns the option nodes left holding several items once
// the traits ran out. Only meaningful on a frozen key.
func (k *Key) Unresolved() []*Node {
	nodes := make([]*Node, 0, len(k.unresolved))
	for _, id := range k.unresolved {
		nodes = append(nodes, k.nodes[id])
	}
	return nodes
}

// Walk visits nodes in pre-order, true branch before false branch.
// depth is 0 for the root. Returning false from fn stops the walk.
func (k *Key) Walk(fn func(n *Node, depth int) bool) {
	root := k.Root()
	if root == nil {
		return
	}
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{id: root.ID}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := k.nodes[f.id]
		if !fn(n, f.depth) {
			return
		}
		// Push right first so left is visited first.
		if n.Right != nil {
			stack = append(stack, frame{id: *n.Right, depth: f.depth + 1})
		}
		if n.Left != nil {
			stack = append(stack, frame{id: *n.Left, depth: f.depth + 1})
		}
	}
}

// Depths returns the depth of every node reachable from the root.
func (k *Key) Depths() map[NodeID]int {
	depths := make(map[NodeID]int, len(k.nodes))
	k.Walk(func(n *Node, depth int) bool {
		depths[n.ID] = depth
		return true
	})
	return depths
}

type keyJSON struct {
	Nodes      []*Node  `json:"nodes"`
	Unresolved []NodeID `json:"unresolved,omitempty"`
}

// MarshalJSON encodes the arena as a list of nodes in identity order.
func (k *Key) MarshalJSON() ([]byte, error) {
	out := keyJSON{Nodes: make([]*Node, 0, len(k.nodes)), Unresolved: k.unresolved}
	for _, id := range k.IDs() {
		out.Nodes = append(out.Nodes, k.nodes[id])
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a key. A decoded key is always frozen; input that
// does not describe a single tree rooted at RootID is rejected.
func (k *Key) UnmarshalJSON(data []byte) error {
	var in keyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	nodes := make(map[NodeID]*Node, len(in.Nodes))
	var next NodeID
	for _, n := range in.Nodes {
		if n == nil {
			continue
		}
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("duplicate node id %d", n.ID)
		}
		nodes[n.ID] = n
		if n.ID >= next {
			next = n.ID + 1
		}
	}
	for _, n := range nodes {
		for _, ref := range []*NodeID{n.Left, n.Right} {
			if ref == nil {
				continue
			}
			if _, ok := nodes[*ref]; !ok {
				return fmt.Errorf("node %d references missing child %d", n.ID, *ref)
			}
		}
	}
	if err := checkTree(nodes); err != nil {
		return err
	}
	k.nodes = nodes
	k.next = next
	k.frozen = false
	k.Freeze()
	return nil
}

// checkTree verifies that nodes form one binary tree rooted at RootID:
// leaves carry an item and no children, and every node is reached from the
// root exactly once.
func checkTree(nodes map[NodeID]*Node) error {
	if _, ok := nodes[RootID]; !ok {
		return fmt.Errorf("%w: root %d", ErrNodeNotFound, RootID)
	}
	for id, n := range nodes {
		switch n.Kind {
		case NodeOption:
		case NodeLeaf:
			if n.Item == nil {
				return fmt.Errorf("leaf %d has no item", id)
			}
			if n.HasChildren() {
				return fmt.Errorf("leaf %d has children", id)
			}
		default:
			return fmt.Errorf("node %d has unknown kind %q", id, n.Kind)
		}
	}

	seen := make(map[NodeID]bool, len(nodes))
	stack := []NodeID{RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return fmt.Errorf("node %d is reached more than once", id)
		}
		seen[id] = true
		n := nodes[id]
		for _, ref := range []*NodeID{n.Left, n.Right} {
			if ref != nil {
				stack = append(stack, *ref)
			}
		}
	}
	if len(seen) != len(nodes) {
		var orphans []NodeID
		for id := range nodes {
			if !seen[id] {
				orphans = append(orphans, id)
			}
		}
		sort.Slice(orphans, func(a, b int) bool { return orphans[a] < orphans[b] })
		return fmt.Errorf("node %d is not reachable from the root", orphans[0])
	}
	return nil
}
