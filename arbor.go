package arbor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/evaluator"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"go.opentelemetry.io/otel/trace"
)

// Func is the callable entry point of a composed tree.
// Each call starts a fresh traversal with input as the initial value.
type Func func(ctx context.Context, input any) (domain.Result, error)

// ConditionEvaluator compiles `when` expressions of declarative trees.
type ConditionEvaluator = evaluator.Evaluator

// ConditionFunc adapts a function to a ConditionEvaluator.
type ConditionFunc = evaluator.Func

// Overlay marks visited, skipped and terminal nodes on a diagram.
type Overlay = graph.Overlay

// Engine is the high-level entry point for the Arbor library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime   *runtime.Engine
	evaluator ConditionEvaluator
	hooks     []domain.LifecycleHooks
	tracer    trace.Tracer
	logger    *slog.Logger
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. It can be given more than once.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer used for invocation and node spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithName labels the engine in logs, events and spans.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// WithConditionEvaluator sets the evaluator for `when` expressions in Load and LoadFile.
// The default evaluates JavaScript expressions.
func WithConditionEvaluator(eval ConditionEvaluator) Option {
	return func(e *Engine) {
		e.evaluator = eval
	}
}

// New validates the tree and initializes an Engine for it.
func New(root *domain.Action, opts ...Option) (*Engine, error) {
	eng := configure(opts)
	return eng.init(root)
}

func configure(opts []Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

func (e *Engine) init(root *domain.Action) (*Engine, error) {
	if err := validator.ValidateTree(root); err != nil {
		return nil, fmt.Errorf("invalid action tree: %w", err)
	}
	if e.Name == "" {
		e.Name = root.Name
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(e.logger),
		runtime.WithTracer(e.tracer),
		runtime.WithName(e.Name),
	}
	for _, h := range e.hooks {
		runtimeOpts = append(runtimeOpts, runtime.WithLifecycleHooks(h))
	}

	e.runtime = runtime.NewEngine(root, runtimeOpts...)
	return e, nil
}

// Compose validates the tree and returns its entry point.
func Compose(root *domain.Action, opts ...Option) (Func, error) {
	eng, err := New(root, opts...)
	if err != nil {
		return nil, err
	}
	return eng.Func(), nil
}

// Load parses a YAML tree definition, resolving executor and condition
// names against reg, and initializes an Engine for it.
func Load(data []byte, reg *registry.Registry, opts ...Option) (*Engine, error) {
	return configure(opts).load(data, reg, "")
}

// LoadFile reads a YAML tree definition from path. The file name labels the
// engine unless the tree or WithName names it.
func LoadFile(path string, reg *registry.Registry, opts ...Option) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read action tree: %w", err)
	}

	base := filepath.Base(path)
	eng, err := configure(opts).load(data, reg, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return eng, nil
}

func (e *Engine) load(data []byte, reg *registry.Registry, label string) (*Engine, error) {
	if e.evaluator == nil {
		e.evaluator = evaluator.NewJS(e.logger)
	}

	root, err := compiler.NewParser(reg, e.evaluator).Parse(data)
	if err != nil {
		return nil, err
	}
	if e.Name == "" && root.Name == "" {
		e.Name = label
	}
	return e.init(root)
}

// Invoke starts a fresh traversal with input as the initial value.
//
// The result is immediate when no asynchronous node was dispatched on the path
// taken, and deferred otherwise. A synchronous executor error raised before
// any asynchronous node is returned as err; later ones reject the deferred result.
func (e *Engine) Invoke(ctx context.Context, input any) (domain.Result, error) {
	return e.runtime.Invoke(ctx, input)
}

// Func returns the engine's entry point.
func (e *Engine) Func() Func {
	return e.runtime.Invoke
}

// Root returns the tree the engine walks.
func (e *Engine) Root() *domain.Action {
	return e.runtime.Root()
}

// Mermaid renders the tree as a Mermaid flowchart, optionally styled with an overlay.
func (e *Engine) Mermaid(overlay *Overlay) string {
	return graph.GenerateMermaid(e.runtime.Root(), overlay)
}
