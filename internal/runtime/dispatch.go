package runtime

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
)

// invocation is the execution context of one call to Invoke.
// Only the traversal goroutine touches it after creation, except for the
// suspended channel.
type invocation struct {
	engine  *Engine
	id      string
	input   domain.Scope
	logger  *slog.Logger
	started time.Time

	suspendOnce sync.Once
	suspended   chan struct{}
}

// frame is the traversal state visible to the next node. It is passed by
// value: each dispatch returns the frame its successors should see.
type frame struct {
	result     any
	settlement future.State
	resultKey  string
}

func rootFrame() frame {
	return frame{resultKey: domain.DefaultResultKey}
}

// outcome is what a dispatch produced.
type outcome struct {
	// finished is set once a leaf executed anywhere below; no further node runs.
	finished bool
	// skipped is set when the node's condition failed.
	skipped bool

	value any
	// deferred holds the unsettled future of an asynchronous leaf.
	deferred *future.Future
	// rejected marks a fallback on an asynchronous node that rejected with err.
	rejected bool
	err      error
}

// suspend marks the invocation as deferred and releases Invoke.
func (inv *invocation) suspend() {
	inv.suspendOnce.Do(func() { close(inv.suspended) })
}

func (inv *invocation) isSuspended() bool {
	select {
	case <-inv.suspended:
		return true
	default:
		return false
	}
}

// dispatch runs one node and, unless it is a leaf, its children.
// The returned error is a raised executor failure and ends the traversal.
func (inv *invocation) dispatch(ctx context.Context, node *domain.Action, fr frame, path string, isRoot bool) (outcome, frame, error) {
	name := nodeName(node, path)

	// 1. Gate
	if !isRoot && node.Condition != nil {
		scope := inv.scope(node.InjectCondition, fr)
		if !node.Condition(scope) {
			inv.logger.Debug("node skipped", "node", name, "path", path)
			inv.emitNodeSkip(ctx, node, name, path)
			return outcome{skipped: true}, fr, nil
		}
	}

	var scope domain.Scope
	if isRoot {
		scope = inv.input.Clone()
	} else {
		scope = inv.scope(node.Inject, fr)
	}

	ctx, span := inv.startNodeSpan(ctx, node, name, path)
	inv.emitNodeEnter(ctx, node, name, path)

	// 2. Leaf: terminal value, immediate or deferred.
	if node.IsLeaf() {
		value, deferred, err := execute(ctx, node.Executor, scope)
		if err != nil {
			inv.failNode(ctx, span, node, name, path, err)
			return outcome{}, fr, err
		}
		out := outcome{finished: true, value: value, deferred: deferred}
		inv.logger.Debug("leaf executed", "node", name, "path", path, "deferred", deferred != nil)
		if deferred != nil {
			inv.watchLeaf(ctx, span, node, name, path, deferred)
		} else {
			span.End()
		}
		inv.emitNodeLeave(ctx, node, name, path, "", nil)
		return out, fr, nil
	}

	// 3. Internal node
	value, deferred, err := execute(ctx, node.Executor, scope)
	if err != nil {
		inv.failNode(ctx, span, node, name, path, err)
		return outcome{}, fr, err
	}

	own := outcome{value: value}
	if deferred != nil {
		inv.suspend()
		settledValue, rejection := deferred.Wait()
		if rejection != nil {
			fr.result = rejection
			fr.settlement = future.Rejected
			own = outcome{value: rejection, rejected: true, err: rejection}
		} else {
			fr.result = settledValue
			fr.settlement = future.Fulfilled
			own = outcome{value: settledValue}
		}
		inv.logger.Debug("node settled", "node", name, "path", path, "settlement", fr.settlement)
		inv.emitNodeSettle(ctx, node, name, path, fr.settlement, rejection)
		endSettledSpan(span, fr.settlement, rejection)
	} else {
		fr.result = value
		span.End()
	}
	fr.resultKey = node.EffectiveResultKey()

	// 4. Children, in declaration order, until one finishes.
	for i, child := range node.Children {
		out, next, err := inv.dispatch(ctx, child, fr, path+"/"+strconv.Itoa(i), false)
		if err != nil {
			return outcome{}, fr, err
		}
		fr = next
		if out.finished {
			inv.emitNodeLeave(ctx, node, name, path, fr.settlement, nil)
			return out, fr, nil
		}
	}

	// 5. Fallback: no leaf reached below this node.
	inv.logger.Debug("no branch taken", "node", name, "path", path)
	inv.emitNodeLeave(ctx, node, name, path, fr.settlement, own.err)
	return own, fr, nil
}

// nodeName returns the display name of a node.
func nodeName(node *domain.Action, path string) string {
	if node.Name != "" {
		return node.Name
	}
	return path
}
