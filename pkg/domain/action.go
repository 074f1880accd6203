package domain

import (
	"context"

	"github.com/aretw0/arbor/pkg/future"
)

// Mode describes how an executor produces its value.
type Mode string

const (
	// ModeSync executors return their value directly.
	ModeSync Mode = "sync"
	// ModeAsync executors return a future that settles later.
	ModeAsync Mode = "async"
	// ModeInferred executors decide per call: returning a *future.Future makes the call asynchronous.
	ModeInferred Mode = "inferred"
)

// Executor is the unit of work wrapped by an Action.
// It is one of SyncExecutor, AsyncExecutor or Func.
type Executor interface {
	Mode() Mode
}

// SyncExecutor produces a value immediately.
// A returned error is a raised failure: it ends the whole invocation and is never branched on.
type SyncExecutor func(ctx context.Context, scope Scope) (any, error)

// Mode implements Executor.
func (SyncExecutor) Mode() Mode { return ModeSync }

// AsyncExecutor produces a deferred value.
// A rejection of the returned future is recorded as data and routed to the children.
type AsyncExecutor func(ctx context.Context, scope Scope) *future.Future

// Mode implements Executor.
func (AsyncExecutor) Mode() Mode { return ModeAsync }

// Func is an executor whose synchronicity is inferred from what it returns.
// Returning a *future.Future (with a nil error) makes the dispatch asynchronous.
type Func func(ctx context.Context, scope Scope) (any, error)

// Mode implements Executor.
func (Func) Mode() Mode { return ModeInferred }

// Condition gates an Action. Only a literal true lets the node and its subtree run.
type Condition func(scope Scope) bool

// Action is a node of the action tree.
// Trees are configuration: build them once and reuse them across invocations.
type Action struct {
	// Name identifies the node in logs, events and spans. Empty names fall back to the tree path.
	Name string

	Executor Executor

	// Children are visited in order. A node without children is a leaf.
	Children []*Action

	// Condition is ignored on the root, which is always eligible.
	Condition Condition

	// Inject selects what the executor scope contains.
	Inject Inject
	// InjectCondition selects what the condition scope contains.
	InjectCondition Inject

	// ResultKey names the field under which this node's result is exposed to descendants.
	// Empty means DefaultResultKey.
	ResultKey string
}

// IsLeaf reports whether executing the action terminates the traversal.
func (a *Action) IsLeaf() bool {
	return len(a.Children) == 0
}

// EffectiveResultKey returns the key descendants see this node's result under.
func (a *Action) EffectiveResultKey() string {
	if a.ResultKey == "" {
		return DefaultResultKey
	}
	return a.ResultKey
}

// Result is the outcome of one invocation of a composed tree.
// Exactly one of Value or Deferred is meaningful: Deferred is set when an
// asynchronous node was dispatched on the path that was taken.
type Result struct {
	Value    any
	Deferred *future.Future
}

// IsDeferred reports whether the result is still (or was) pending on a future.
func (r Result) IsDeferred() bool {
	return r.Deferred != nil
}

// Wait returns the final value, blocking on the deferred result if needed.
func (r Result) Wait() (any, error) {
	if r.Deferred == nil {
		return r.Value, nil
	}
	return r.Deferred.Wait()
}

// Await is Wait bounded by ctx.
func (r Result) Await(ctx context.Context) (any, error) {
	if r.Deferred == nil {
		return r.Value, nil
	}
	return r.Deferred.Await(ctx)
}
