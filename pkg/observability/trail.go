package observability

import (
	"context"
	"sync"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
)

// Trail records the path one invocation took through the tree.
// It follows the first invocation it sees and ignores the others.
type Trail struct {
	mu           sync.Mutex
	invocationID string
	visited      []string
	skipped      []string
	terminal     string
}

// NewTrail creates an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

func (t *Trail) follows(id string) bool {
	if t.invocationID == "" {
		t.invocationID = id
	}
	return t.invocationID == id
}

// Hooks returns lifecycle hooks feeding the trail.
func (t *Trail) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			if !t.follows(e.InvocationID) {
				return
			}
			t.visited = append(t.visited, e.Path)
			if e.Leaf {
				t.terminal = e.Path
			}
		},
		OnNodeSkip: func(ctx context.Context, e *domain.NodeEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.follows(e.InvocationID) {
				t.skipped = append(t.skipped, e.Path)
			}
		},
	}
}

// Visited returns the paths of executed nodes in traversal order.
func (t *Trail) Visited() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.visited...)
}

// Terminal returns the path of the leaf that ended the traversal, or "".
func (t *Trail) Terminal() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminal
}

// Overlay converts the trail for diagram rendering.
func (t *Trail) Overlay() *graph.Overlay {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &graph.Overlay{
		Visited:  append([]string(nil), t.visited...),
		Skipped:  append([]string(nil), t.skipped...),
		Terminal: t.terminal,
	}
}
