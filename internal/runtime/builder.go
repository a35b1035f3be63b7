package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/keysort/pkg/domain"
)

// ResidualPolicy decides what happens when the traits run out while an
// option node still holds more than one item.
type ResidualPolicy int

const (
	// ResidualAllow leaves such nodes in the key as childless option nodes.
	ResidualAllow ResidualPolicy = iota
	// ResidualReject fails the build with domain.ErrUnresolved.
	ResidualReject
)

func (p ResidualPolicy) String() string {
	if p == ResidualReject {
		return "reject"
	}
	return "allow"
}

// Builder constructs dichotomous keys.
// A Builder holds configuration only and may be reused; each Build call owns
// its key until it returns.
type Builder struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	policy ResidualPolicy
	now    func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) BuilderOption {
	return func(b *Builder) {
		b.hooks = hooks
	}
}

// WithResidualPolicy selects how unresolved nodes are treated.
func WithResidualPolicy(p ResidualPolicy) BuilderOption {
	return func(b *Builder) {
		b.policy = p
	}
}

// NewBuilder creates a builder. The default policy is ResidualAllow.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build partitions items into a key, one trait layer at a time.
//
// The node at layer i asks traits[i]. Every option child created at layer i
// is given traits[i+1] and queued for layer i+1, so identities come out in
// breadth-first, true-before-false order.
func (b *Builder) Build(ctx context.Context, items []domain.Item, traits []domain.Trait) (*domain.Key, error) {
	start := b.now()
	if b.hooks.OnBuildStart != nil {
		b.hooks.OnBuildStart(ctx, &domain.BuildEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventBuildStart},
			Items:     len(items),
			Traits:    len(traits),
		})
	}

	key, err := b.build(ctx, items, traits)

	done := &domain.BuildEvent{
		EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventBuildComplete},
		Items:     len(items),
		Traits:    len(traits),
		Duration:  b.now().Sub(start),
		Err:       err,
	}
	if key != nil {
		done.Nodes = key.Len()
		done.Leaves = len(key.Leaves())
		done.Unresolved = len(key.Unresolved())
	}
	if b.hooks.OnBuildComplete != nil {
		b.hooks.OnBuildComplete(ctx, done)
	}

	if err != nil {
		b.logger.Error("key build failed", "items", len(items), "traits", len(traits), "err", err)
		return nil, err
	}
	b.logger.Info("key built",
		"items", len(items),
		"traits", len(traits),
		"nodes", done.Nodes,
		"leaves", done.Leaves,
		"unresolved", done.Unresolved,
	)
	return key, nil
}

func (b *Builder) build(ctx context.Context, items []domain.Item, traits []domain.Trait) (*domain.Key, error) {
	if err := checkTraits(traits); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &domain.BuildError{Kind: domain.ErrNoItems, NodeID: domain.RootID}
	}

	// traitAt returns nil past the end of the order.
	traitAt := func(i int) *domain.Trait {
		if i < len(traits) {
			t := traits[i]
			return &t
		}
		return nil
	}

	key := domain.NewKey()
	root, err := key.AddOption(append([]domain.Item(nil), items...), traitAt(0))
	if err != nil {
		return nil, err
	}
	b.nodeCreated(ctx, key, root, nil, 0)

	queue := []domain.NodeID{root}
	for layer := range traits {
		b.logger.Debug("processing layer", "layer", layer, "trait", traits[layer].Name, "pending", len(queue))

		var next []domain.NodeID
		for _, id := range queue {
			node, _ := key.Node(id)
			if node.Trait == nil {
				continue
			}

			groups, err := partition(node)
			if err != nil {
				return nil, err
			}

			if groups.allAbsent() {
				following := traitAt(layer + 1)
				if err := key.Assign(id, following); err != nil {
					return nil, err
				}
				b.deferred(ctx, id, node.Trait.Name, following, layer)
				if following != nil {
					next = append(next, id)
				}
				continue
			}

			for _, side := range []struct {
				outcome bool
				items   []domain.Item
			}{
				{outcome: true, items: groups.yes},
				{outcome: false, items: groups.no},
			} {
				var child domain.NodeID
				switch len(side.items) {
				case 0:
					continue
				case 1:
					child, err = key.AddLeaf(side.items[0])
				default:
					child, err = key.AddOption(side.items, traitAt(layer+1))
					if err == nil && layer+1 < len(traits) {
						next = append(next, child)
					}
				}
				if err != nil {
					return nil, err
				}
				if err := key.Link(id, side.outcome, child); err != nil {
					return nil, err
				}
				parent := id
				b.nodeCreated(ctx, key, child, &parent, layer+1)
			}
		}
		queue = next
	}

	// Only a root deferred past every trait can still hold a lone item.
	if root := key.Root(); root.Kind == domain.NodeOption && !root.HasChildren() && len(root.Possibilities) == 1 {
		if err := key.Settle(root.ID); err != nil {
			return nil, err
		}
		b.logger.Debug("lone item placed without a question", "item", root.Item.Name())
	}

	key.Freeze()

	unresolved := key.Unresolved()
	for _, n := range unresolved {
		b.logger.Warn("unresolved items after last trait",
			"node", n.ID,
			"items", domain.ItemNames(n.Possibilities),
			"policy", b.policy.String(),
		)
		if b.hooks.OnUnresolved != nil {
			b.hooks.OnUnresolved(ctx, &domain.NodeEvent{
				EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventUnresolved},
				NodeID:    n.ID,
				Kind:      n.Kind,
				Size:      len(n.Possibilities),
				Layer:     len(traits),
			})
		}
	}
	if b.policy == ResidualReject && len(unresolved) > 0 {
		first := unresolved[0]
		return nil, &domain.BuildError{
			Kind:    domain.ErrUnresolved,
			NodeID:  first.ID,
			Present: domain.ItemNames(first.Possibilities),
		}
	}

	return key, nil
}

func (b *Builder) nodeCreated(ctx context.Context, key *domain.Key, id domain.NodeID, parent *domain.NodeID, layer int) {
	if b.hooks.OnNodeCreated == nil {
		return
	}
	n, _ := key.Node(id)
	ev := &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventNodeCreated},
		NodeID:    id,
		Parent:    parent,
		Kind:      n.Kind,
		Size:      len(n.Possibilities),
		Layer:     layer,
	}
	if n.IsLeaf() {
		ev.Size = 1
	}
	if n.Trait != nil {
		ev.Trait = n.Trait.Name
	}
	b.hooks.OnNodeCreated(ctx, ev)
}

func (b *Builder) deferred(ctx context.Context, id domain.NodeID, from string, to *domain.Trait, layer int) {
	ev := &domain.DeferralEvent{
		EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventDeferral},
		NodeID:    id,
		From:      from,
		Layer:     layer,
	}
	if to != nil {
		ev.To = to.Name
	}
	b.logger.Debug("deferring node to next trait", "node", id, "from", from, "to", ev.To)
	if b.hooks.OnDeferral != nil {
		b.hooks.OnDeferral(ctx, ev)
	}
}

func checkTraits(traits []domain.Trait) error {
	if len(traits) == 0 {
		return &domain.BuildError{Kind: domain.ErrNoTraits, NodeID: domain.RootID}
	}
	seen := make(map[string]bool, len(traits))
	for _, t := range traits {
		if seen[t.Name] {
			return &domain.BuildError{Kind: domain.ErrDuplicateTrait, NodeID: domain.RootID, Trait: t.Name}
		}
		seen[t.Name] = true
	}
	return nil
}

type groups struct {
	yes, no []domain.Item
	present []string
	absent  []string
}

func (g groups) allAbsent() bool {
	return len(g.present) == 0 && len(g.absent) > 0
}

// partition splits a node's possibilities on its trait, keeping input order.
func partition(node *domain.Node) (groups, error) {
	var g groups
	trait := *node.Trait
	for _, item := range node.Possibilities {
		obs, ok := item.TraitValue(trait.Name)
		if !ok {
			g.absent = append(g.absent, item.Name())
			continue
		}
		g.present = append(g.present, item.Name())

		outcome, err := trait.Decide(obs)
		if err != nil {
			return groups{}, &domain.BuildError{
				Kind:   domain.ErrUnrecognizedValue,
				NodeID: node.ID,
				Trait:  trait.Name,
				Item:   item.Name(),
				Value:  obs.String(),
				Err:    err,
			}
		}
		if outcome {
			g.yes = append(g.yes, item)
		} else {
			g.no = append(g.no, item)
		}
	}

	if len(g.present) > 0 && len(g.absent) > 0 {
		return groups{}, &domain.BuildError{
			Kind:    domain.ErrPartialCoverage,
			NodeID:  node.ID,
			Trait:   trait.Name,
			Present: g.present,
			Absent:  g.absent,
		}
	}
	return g, nil
}

// Describe summarises a key for logs and CLI output.
func Describe(key *domain.Key) string {
	return fmt.Sprintf("%d nodes, %d leaves, %d unresolved", key.Len(), len(key.Leaves()), len(key.Unresolved()))
}
