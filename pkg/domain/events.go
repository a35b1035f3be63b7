package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBuildStart    EventType = "build_start"
	EventNodeCreated   EventType = "node_created"
	EventDeferral      EventType = "deferral"
	EventUnresolved    EventType = "unresolved"
	EventBuildComplete EventType = "build_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// BuildEvent marks the start or end of a key construction.
type BuildEvent struct {
	EventBase
	Items      int           `json:"items"`
	Traits     int           `json:"traits"`
	Nodes      int           `json:"nodes,omitempty"`
	Leaves     int           `json:"leaves,omitempty"`
	Unresolved int           `json:"unresolved,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Err        error         `json:"-"`
}

// NodeEvent describes a node created or left unresolved.
type NodeEvent struct {
	EventBase
	NodeID NodeID   `json:"node_id"`
	Parent *NodeID  `json:"parent,omitempty"`
	Kind   NodeKind `json:"kind"`
	Trait  string   `json:"trait,omitempty"`
	Size   int      `json:"size"`
	Layer  int      `json:"layer"`
}

// DeferralEvent records a node moving on to the next trait because
// none of its items carry the current one.
type DeferralEvent struct {
	EventBase
	NodeID NodeID `json:"node_id"`
	From   string `json:"from"`
	To     string `json:"to,omitempty"`
	Layer  int    `json:"layer"`
}

// LifecycleHooks defines callbacks for builder observability.
type LifecycleHooks struct {
	OnBuildStart    func(context.Context, *BuildEvent)
	OnNodeCreated   func(context.Context, *NodeEvent)
	OnDeferral      func(context.Context, *DeferralEvent)
	OnUnresolved    func(context.Context, *NodeEvent)
	OnBuildComplete func(context.Context, *BuildEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnBuildStart:    chain(h.OnBuildStart, other.OnBuildStart),
		OnNodeCreated:   chain(h.OnNodeCreated, other.OnNodeCreated),
		OnDeferral:      chain(h.OnDeferral, other.OnDeferral),
		OnUnresolved:    chain(h.OnUnresolved, other.OnUnresolved),
		OnBuildComplete: chain(h.OnBuildComplete, other.OnBuildComplete),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
