package runtime

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (inv *invocation) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp:    time.Now(),
		Type:         t,
		InvocationID: inv.id,
	}
}

func (inv *invocation) nodeEvent(t domain.EventType, node *domain.Action, name, path string) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: inv.base(t),
		Node:      name,
		Path:      path,
		Leaf:      node.IsLeaf(),
		Mode:      modeOf(node.Executor),
	}
}

func (inv *invocation) emitInvokeStart(ctx context.Context) {
	evt := &domain.InvocationEvent{EventBase: inv.base(domain.EventInvokeStart), Engine: inv.engine.name}
	for _, h := range inv.engine.hooks {
		if h.OnInvokeStart != nil {
			h.OnInvokeStart(ctx, evt)
		}
	}
}

func (inv *invocation) emitInvokeEnd(ctx context.Context, deferred bool, err error) {
	evt := &domain.InvocationEvent{
		EventBase: inv.base(domain.EventInvokeEnd),
		Engine:    inv.engine.name,
		Deferred:  deferred,
		Duration:  time.Since(inv.started),
		Err:       err,
	}
	if err != nil {
		inv.logger.Debug("invocation failed", "deferred", deferred, "error", err)
	}
	for _, h := range inv.engine.hooks {
		if h.OnInvokeEnd != nil {
			h.OnInvokeEnd(ctx, evt)
		}
	}
}

func (inv *invocation) emitNodeEnter(ctx context.Context, node *domain.Action, name, path string) {
	evt := inv.nodeEvent(domain.EventNodeEnter, node, name, path)
	for _, h := range inv.engine.hooks {
		if h.OnNodeEnter != nil {
			h.OnNodeEnter(ctx, evt)
		}
	}
}

func (inv *invocation) emitNodeSkip(ctx context.Context, node *domain.Action, name, path string) {
	evt := inv.nodeEvent(domain.EventNodeSkip, node, name, path)
	for _, h := range inv.engine.hooks {
		if h.OnNodeSkip != nil {
			h.OnNodeSkip(ctx, evt)
		}
	}
}

func (inv *invocation) emitNodeSettle(ctx context.Context, node *domain.Action, name, path string, st future.State, err error) {
	evt := inv.nodeEvent(domain.EventNodeSettle, node, name, path)
	evt.Settlement = st
	evt.Err = err
	for _, h := range inv.engine.hooks {
		if h.OnNodeSettle != nil {
			h.OnNodeSettle(ctx, evt)
		}
	}
}

func (inv *invocation) emitNodeLeave(ctx context.Context, node *domain.Action, name, path string, st future.State, err error) {
	evt := inv.nodeEvent(domain.EventNodeLeave, node, name, path)
	evt.Settlement = st
	evt.Err = err
	for _, h := range inv.engine.hooks {
		if h.OnNodeLeave != nil {
			h.OnNodeLeave(ctx, evt)
		}
	}
}

func (inv *invocation) startNodeSpan(ctx context.Context, node *domain.Action, name, path string) (context.Context, trace.Span) {
	return inv.engine.tracer.Start(ctx, "arbor.node", trace.WithAttributes(
		attribute.String("arbor.node", name),
		attribute.String("arbor.path", path),
		attribute.String("arbor.mode", string(modeOf(node.Executor))),
		attribute.Bool("arbor.leaf", node.IsLeaf()),
	))
}

// failNode closes the node span for a raised executor error.
func (inv *invocation) failNode(ctx context.Context, span trace.Span, node *domain.Action, name, path string, err error) {
	inv.logger.Debug("executor raised", "node", name, "path", path, "error", err)
	recordError(span, err)
	span.End()
	inv.emitNodeLeave(ctx, node, name, path, "", err)
}

// watchLeaf ends the span of an asynchronous leaf once it settles. The
// traversal itself does not wait for it.
func (inv *invocation) watchLeaf(ctx context.Context, span trace.Span, node *domain.Action, name, path string, f *future.Future) {
	go func() {
		_, err := f.Wait()
		st := future.Fulfilled
		if err != nil {
			st = future.Rejected
		}
		inv.emitNodeSettle(ctx, node, name, path, st, err)
		endSettledSpan(span, st, err)
	}()
}

func endSettledSpan(span trace.Span, st future.State, err error) {
	span.SetAttributes(attribute.String("arbor.settlement", string(st)))
	if err != nil {
		recordError(span, err)
	}
	span.End()
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
