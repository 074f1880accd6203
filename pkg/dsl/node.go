package dsl

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
)

// NodeBuilder provides a fluent API for configuring an action.
type NodeBuilder struct {
	action   domain.Action
	children []*NodeBuilder
}

// Do starts a node wrapping any executor variant.
func Do(name string, exec domain.Executor) *NodeBuilder {
	return &NodeBuilder{action: domain.Action{Name: name, Executor: exec}}
}

// Sync starts a node wrapping a synchronous executor.
func Sync(name string, fn func(ctx context.Context, scope domain.Scope) (any, error)) *NodeBuilder {
	return Do(name, domain.SyncExecutor(fn))
}

// Async starts a node wrapping an asynchronous executor.
func Async(name string, fn func(ctx context.Context, scope domain.Scope) *future.Future) *NodeBuilder {
	return Do(name, domain.AsyncExecutor(fn))
}

// When gates the node (and its subtree) behind a condition.
func (n *NodeBuilder) When(cond domain.Condition) *NodeBuilder {
	n.action.Condition = cond
	return n
}

// WhenRejected runs the node only if the latest asynchronous node rejected.
func (n *NodeBuilder) WhenRejected() *NodeBuilder {
	n.action.Condition = domain.Scope.Rejected
	n.ensureSettlementForCondition()
	return n
}

// WhenFulfilled runs the node only if the latest asynchronous node fulfilled.
func (n *NodeBuilder) WhenFulfilled() *NodeBuilder {
	n.action.Condition = domain.Scope.Fulfilled
	n.ensureSettlementForCondition()
	return n
}

func (n *NodeBuilder) ensureSettlementForCondition() {
	if n.action.InjectCondition != domain.InjectDefault {
		n.action.InjectCondition = n.action.InjectCondition&^domain.InjectNothing | domain.InjectSettlement
	}
}

// Inject narrows the executor scope. No parts means an empty scope.
func (n *NodeBuilder) Inject(parts ...domain.Inject) *NodeBuilder {
	n.action.Inject = combine(parts)
	return n
}

// InjectWhen narrows the condition scope. No parts means an empty scope.
func (n *NodeBuilder) InjectWhen(parts ...domain.Inject) *NodeBuilder {
	n.action.InjectCondition = combine(parts)
	return n
}

func combine(parts []domain.Inject) domain.Inject {
	if len(parts) == 0 {
		return domain.InjectNothing
	}
	var out domain.Inject
	for _, p := range parts {
		out |= p
	}
	if out == domain.InjectDefault {
		return domain.InjectNothing
	}
	return out
}

// ResultKey exposes this node's result to descendants under key.
func (n *NodeBuilder) ResultKey(key string) *NodeBuilder {
	n.action.ResultKey = key
	return n
}

// Then appends children, tried in order.
func (n *NodeBuilder) Then(children ...*NodeBuilder) *NodeBuilder {
	n.children = append(n.children, children...)
	return n
}

// Build returns the underlying action tree.
// Each call produces a fresh tree, so the builder can keep being modified.
func (n *NodeBuilder) Build() *domain.Action {
	return n.build(make(map[*NodeBuilder]*domain.Action))
}

func (n *NodeBuilder) build(seen map[*NodeBuilder]*domain.Action) *domain.Action {
	if n == nil {
		return nil
	}
	if a, ok := seen[n]; ok {
		return a
	}
	a := n.action
	out := &a
	seen[n] = out

	out.Children = nil
	for _, c := range n.children {
		out.Children = append(out.Children, c.build(seen))
	}
	return out
}
