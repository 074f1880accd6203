package runtime

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/arbor"

// Engine walks one action tree. It holds no per-invocation state and is safe
// for concurrent use.
type Engine struct {
	root   *domain.Action
	name   string
	logger *slog.Logger
	hooks  []domain.LifecycleHooks
	tracer trace.Tracer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks appends observability hooks. Hooks run in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithTracer sets the OpenTelemetry tracer. The global provider is used by default.
func WithTracer(tracer trace.Tracer) EngineOption {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithName labels the engine in logs, events and spans.
func WithName(name string) EngineOption {
	return func(e *Engine) {
		e.name = name
	}
}

// NewEngine creates an engine for a validated tree.
func NewEngine(root *domain.Action, opts ...EngineOption) *Engine {
	e := &Engine{
		root:   root,
		logger: logging.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.name != "" {
		e.logger = e.logger.With("engine", e.name)
	}
	return e
}

// Root returns the tree the engine walks.
func (e *Engine) Root() *domain.Action {
	return e.root
}

// settled is what the traversal goroutine hands back to Invoke.
type settled struct {
	out   outcome
	err   error
	panic *domain.PanicError
}

// Invoke starts a fresh traversal with input as the initial value.
//
// The traversal runs on its own goroutine while Invoke waits. If it completes
// without suspending on an asynchronous node, the result is immediate and a
// raised executor error is returned as err. Once an asynchronous node is
// dispatched Invoke returns a deferred result that settles when the traversal ends.
func (e *Engine) Invoke(ctx context.Context, input any) (domain.Result, error) {
	fields, err := decodeInput(input)
	if err != nil {
		return domain.Result{}, err
	}

	inv := &invocation{
		engine:    e,
		id:        uuid.NewString(),
		input:     fields,
		suspended: make(chan struct{}),
		started:   time.Now(),
	}
	inv.logger = e.logger.With("invocation", inv.id)

	ctx, span := e.tracer.Start(ctx, "arbor.invoke", trace.WithAttributes(
		attribute.String("arbor.engine", e.name),
		attribute.String("arbor.invocation", inv.id),
	))
	inv.emitInvokeStart(ctx)

	done := make(chan settled, 1)
	go func() {
		var s settled
		defer func() {
			if r := recover(); r != nil {
				s = settled{panic: &domain.PanicError{Value: r, Stack: debug.Stack()}}
			}
			done <- s
		}()
		s.out, _, s.err = inv.dispatch(ctx, e.root, rootFrame(), "root", true)
	}()

	select {
	case s := <-done:
		if !inv.isSuspended() {
			return inv.finishImmediate(ctx, span, s)
		}
		return inv.finishDeferred(ctx, span, func() settled { return s }), nil
	case <-inv.suspended:
		return inv.finishDeferred(ctx, span, func() settled { return <-done }), nil
	}
}

// finishImmediate reports a traversal that never suspended.
func (inv *invocation) finishImmediate(ctx context.Context, span trace.Span, s settled) (domain.Result, error) {
	if s.out.deferred != nil && s.panic == nil && s.err == nil {
		// The terminal leaf is asynchronous; the caller awaits it directly
		// and the invocation ends when it settles.
		leaf := s.out.deferred
		go func() {
			_, err := leaf.Wait()
			if err != nil {
				recordError(span, err)
			}
			span.End()
			inv.emitInvokeEnd(ctx, true, err)
		}()
		return domain.Result{Deferred: leaf}, nil
	}

	defer span.End()

	if s.panic != nil {
		inv.emitInvokeEnd(ctx, false, s.panic)
		panic(s.panic.Value)
	}
	if s.err != nil {
		recordError(span, s.err)
		inv.emitInvokeEnd(ctx, false, s.err)
		return domain.Result{}, s.err
	}
	if s.out.rejected {
		recordError(span, s.out.err)
		inv.emitInvokeEnd(ctx, true, s.out.err)
		return domain.Result{Deferred: future.Reject(s.out.err)}, nil
	}
	inv.emitInvokeEnd(ctx, false, nil)
	return domain.Result{Value: s.out.value}, nil
}

// finishDeferred returns a pending result settled from the traversal outcome.
func (inv *invocation) finishDeferred(ctx context.Context, span trace.Span, wait func() settled) domain.Result {
	f, resolve, reject := future.New()
	go func() {
		s := wait()
		var value any
		var err error
		switch {
		case s.panic != nil:
			err = s.panic
		case s.err != nil:
			err = s.err
		case s.out.deferred != nil:
			value, err = s.out.deferred.Wait()
		case s.out.rejected:
			err = s.out.err
		default:
			value = s.out.value
		}

		if err != nil {
			recordError(span, err)
		}
		inv.emitInvokeEnd(ctx, true, err)
		span.End()

		if err != nil {
			reject(err)
			return
		}
		resolve(value)
	}()
	return domain.Result{Deferred: f}
}
