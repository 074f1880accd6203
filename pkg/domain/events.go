package domain

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/future"
)

// EventType defines the category of the event.
type EventType string

const (
	EventInvokeStart EventType = "invoke_start"
	EventNodeEnter   EventType = "node_enter"
	EventNodeSkip    EventType = "node_skip"
	EventNodeSettle  EventType = "node_settle"
	EventNodeLeave   EventType = "node_leave"
	EventInvokeEnd   EventType = "invoke_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp    time.Time `json:"timestamp"`
	Type         EventType `json:"type"`
	InvocationID string    `json:"invocation_id"`
}

// NodeEvent describes a step of the traversal on one node.
type NodeEvent struct {
	EventBase
	Node string `json:"node"`
	// Path is the position in the tree, e.g. "root/1/0".
	Path       string       `json:"path"`
	Leaf       bool         `json:"leaf"`
	Mode       Mode         `json:"mode,omitempty"`
	Settlement future.State `json:"settlement,omitempty"`
	Err        error        `json:"-"`
}

// InvocationEvent describes the start or the end of one invocation.
type InvocationEvent struct {
	EventBase
	Engine   string        `json:"engine,omitempty"`
	Deferred bool          `json:"deferred"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Node hooks run on the traversal goroutine, in traversal order, except
// OnNodeSettle for an asynchronous leaf, which fires whenever the leaf settles.
type LifecycleHooks struct {
	OnInvokeStart func(context.Context, *InvocationEvent)
	OnNodeEnter   func(context.Context, *NodeEvent)
	OnNodeSkip    func(context.Context, *NodeEvent)
	OnNodeSettle  func(context.Context, *NodeEvent)
	OnNodeLeave   func(context.Context, *NodeEvent)
	OnInvokeEnd   func(context.Context, *InvocationEvent)
}
