package runtime_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
	"pgregory.net/rapid"
)

// genNode is the shape of a generated tree before it becomes an action tree.
type genNode struct {
	id       int
	async    bool
	reject   bool
	hasGate  bool
	gate     bool
	children []*genNode
}

func drawTree(t *rapid.T, depth int, next *int) *genNode {
	n := &genNode{id: *next}
	*next++
	n.async = rapid.Bool().Draw(t, "async")
	n.reject = n.async && rapid.Bool().Draw(t, "reject")
	n.hasGate = rapid.Bool().Draw(t, "hasGate")
	n.gate = rapid.Bool().Draw(t, "gate")
	if depth == 0 {
		return n
	}
	count := rapid.IntRange(0, 3).Draw(t, "children")
	for i := 0; i < count; i++ {
		n.children = append(n.children, drawTree(t, depth-1, next))
	}
	return n
}

func rejection(id int) error {
	return fmt.Errorf("reject-%d", id)
}

// traceLog records executor and condition calls in call order.
type traceLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *traceLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

func (l *traceLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func buildTree(n *genNode, log *traceLog, isRoot bool) *domain.Action {
	a := &domain.Action{Name: fmt.Sprint(n.id)}
	if n.async {
		a.Executor = domain.AsyncExecutor(func(ctx context.Context, s domain.Scope) *future.Future {
			log.add("exec %d", n.id)
			if n.reject {
				return future.Reject(rejection(n.id))
			}
			return future.Resolve(n.id)
		})
	} else {
		a.Executor = domain.SyncExecutor(func(ctx context.Context, s domain.Scope) (any, error) {
			log.add("exec %d", n.id)
			return n.id, nil
		})
	}
	if n.hasGate && !isRoot {
		a.Condition = func(domain.Scope) bool {
			log.add("cond %d", n.id)
			return n.gate
		}
	}
	for _, c := range n.children {
		a.Children = append(a.Children, buildTree(c, log, false))
	}
	return a
}

// referenceModel is a direct rendition of the traversal rules.
type referenceModel struct {
	entries  []string
	deferred bool
}

func (m *referenceModel) run(n *genNode, isRoot bool) (finished bool, val any, rej error) {
	if !isRoot && n.hasGate {
		m.entries = append(m.entries, fmt.Sprintf("cond %d", n.id))
		if !n.gate {
			return false, nil, nil
		}
	}
	m.entries = append(m.entries, fmt.Sprintf("exec %d", n.id))

	var ownVal any = n.id
	var ownRej error
	if n.async {
		m.deferred = true
		if n.reject {
			ownVal, ownRej = nil, rejection(n.id)
		}
	}
	if len(n.children) == 0 {
		return true, ownVal, ownRej
	}
	for _, c := range n.children {
		if f, v, r := m.run(c, false); f {
			return true, v, r
		}
	}
	return false, ownVal, ownRej
}

func collectLeaves(n *genNode, leaves map[string]bool) {
	if len(n.children) == 0 {
		leaves[fmt.Sprintf("exec %d", n.id)] = true
	}
	for _, c := range n.children {
		collectLeaves(c, leaves)
	}
}

func TestProperty_TraversalMatchesReferenceModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		next := 0
		tree := drawTree(t, rapid.IntRange(0, 3).Draw(t, "depth"), &next)

		log := &traceLog{}
		eng := runtime.NewEngine(buildTree(tree, log, true))
		res, err := eng.Invoke(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected raised error: %v", err)
		}
		got, gotErr := res.Wait()

		model := &referenceModel{}
		_, wantVal, wantRej := model.run(tree, true)

		// P4 + P5: identical call order, rejected nodes still reach their children's gates.
		entries := log.snapshot()
		if fmt.Sprint(entries) != fmt.Sprint(model.entries) {
			t.Fatalf("call order\n got: %v\nwant: %v", entries, model.entries)
		}

		// P6: any asynchronous dispatch on the taken path makes the result deferred.
		if res.IsDeferred() != model.deferred {
			t.Fatalf("deferred = %t, want %t", res.IsDeferred(), model.deferred)
		}

		// P3: fallback identity, including rejected fallbacks.
		if wantRej != nil {
			if gotErr == nil || gotErr.Error() != wantRej.Error() {
				t.Fatalf("rejection = %v, want %v", gotErr, wantRej)
			}
		} else if gotErr != nil || got != wantVal {
			t.Fatalf("result = %v (%v), want %v", got, gotErr, wantVal)
		}

		// P1: at most one leaf runs and nothing runs after it.
		leaves := map[string]bool{}
		collectLeaves(tree, leaves)
		for i, e := range entries {
			if leaves[e] && i != len(entries)-1 {
				t.Fatalf("leaf %q executed before %v", e, entries[i+1:])
			}
		}
	})
}

func TestProperty_FailedGateHasNoSideEffects(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		next := 0
		tree := drawTree(t, 3, &next)

		// Close the gate of one random non-root node.
		var nonRoot []*genNode
		var walk func(*genNode)
		walk = func(n *genNode) {
			for _, c := range n.children {
				nonRoot = append(nonRoot, c)
				walk(c)
			}
		}
		walk(tree)
		if len(nonRoot) == 0 {
			t.Skip("single node tree")
		}
		closed := nonRoot[rapid.IntRange(0, len(nonRoot)-1).Draw(t, "closed")]
		closed.hasGate, closed.gate = true, false

		subtree := map[string]bool{}
		var mark func(*genNode)
		mark = func(n *genNode) {
			subtree[fmt.Sprintf("exec %d", n.id)] = true
			for _, c := range n.children {
				mark(c)
			}
		}
		mark(closed)

		log := &traceLog{}
		res, err := runtime.NewEngine(buildTree(tree, log, true)).Invoke(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected raised error: %v", err)
		}
		_, _ = res.Wait()

		for _, e := range log.snapshot() {
			if subtree[e] {
				t.Fatalf("%q ran inside a closed subtree", e)
			}
		}
	})
}
