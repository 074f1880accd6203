package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
)

// Registry maps names to executors and conditions so that action trees can be
// described declaratively.
type Registry struct {
	mu         sync.RWMutex
	executors  map[string]domain.Executor
	conditions map[string]domain.Condition
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		executors:  make(map[string]domain.Executor),
		conditions: make(map[string]domain.Condition),
	}
}

// Register adds an executor under name.
// If an executor with the same name exists, it is overwritten.
func (r *Registry) Register(name string, exec domain.Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[name] = exec
}

// RegisterSync registers a synchronous executor.
func (r *Registry) RegisterSync(name string, fn func(ctx context.Context, scope domain.Scope) (any, error)) {
	r.Register(name, domain.SyncExecutor(fn))
}

// RegisterAsync registers an asynchronous executor.
func (r *Registry) RegisterAsync(name string, fn func(ctx context.Context, scope domain.Scope) *future.Future) {
	r.Register(name, domain.AsyncExecutor(fn))
}

// RegisterCondition adds a named condition.
func (r *Registry) RegisterCondition(name string, cond domain.Condition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[name] = cond
}

// Executor looks up an executor by name.
func (r *Registry) Executor(name string) (domain.Executor, error) {
	r.mu.RLock()
	exec, ok := r.executors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownExecutor, name)
	}
	return exec, nil
}

// Condition looks up a condition by name.
func (r *Registry) Condition(name string) (domain.Condition, error) {
	r.mu.RLock()
	cond, ok := r.conditions[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCondition, name)
	}
	return cond, nil
}

// Names returns the registered executor names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
