package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// LogHooks logs every lifecycle event on logger.
// Node events go to Debug, invocation ends to Info (Warn when they failed).
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	node := func(ctx context.Context, e *domain.NodeEvent) {
		attrs := []any{"invocation", e.InvocationID, "node", e.Node, "path", e.Path}
		if e.Settlement != "" {
			attrs = append(attrs, "settlement", e.Settlement)
		}
		if e.Err != nil {
			attrs = append(attrs, "error", e.Err)
		}
		logger.DebugContext(ctx, string(e.Type), attrs...)
	}

	return domain.LifecycleHooks{
		OnInvokeStart: func(ctx context.Context, e *domain.InvocationEvent) {
			logger.DebugContext(ctx, string(e.Type), "invocation", e.InvocationID, "engine", e.Engine)
		},
		OnNodeEnter:  node,
		OnNodeSkip:   node,
		OnNodeSettle: node,
		OnNodeLeave:  node,
		OnInvokeEnd: func(ctx context.Context, e *domain.InvocationEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, string(e.Type),
					"invocation", e.InvocationID,
					"deferred", e.Deferred,
					"duration", e.Duration,
					"error", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, string(e.Type),
				"invocation", e.InvocationID,
				"deferred", e.Deferred,
				"duration", e.Duration,
			)
		},
	}
}
