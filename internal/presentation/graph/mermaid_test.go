package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
)

func syncExec(ctx context.Context, s domain.Scope) (any, error) { return nil, nil }

func asyncExec(ctx context.Context, s domain.Scope) *future.Future { return future.Resolve(nil) }

func always(domain.Scope) bool { return true }

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		root     *domain.Action
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name: "Root Shape",
			root: &domain.Action{Name: "start", Executor: domain.SyncExecutor(syncExec)},
			contains: []string{
				`root(("start"))`,
			},
		},
		{
			name: "Child Shapes",
			root: &domain.Action{
				Name:     "root",
				Executor: domain.SyncExecutor(syncExec),
				Children: []*domain.Action{
					{Name: "fetch", Executor: domain.AsyncExecutor(asyncExec), Children: []*domain.Action{
						{Name: "done", Executor: domain.SyncExecutor(syncExec)},
					}},
					{Name: "maybe", Executor: domain.Func(syncExec)},
				},
			},
			contains: []string{
				`root_0[["fetch"]]`,
				`root_0_0(["done"])`,
				`root_1{{"maybe"}}`,
				"root --> root_0",
				"root_0 --> root_0_0",
			},
		},
		{
			name: "Gated Edge And Result Key",
			root: &domain.Action{
				Executor: domain.SyncExecutor(syncExec),
				Children: []*domain.Action{
					{Name: "on-error", Executor: domain.SyncExecutor(syncExec), Condition: always, ResultKey: "report"},
				},
			},
			contains: []string{
				"root -. when .-> root_0",
				`root_0(["on-error <br/> → report"])`,
			},
		},
		{
			name: "Unnamed Nodes Use Path",
			root: &domain.Action{
				Executor: domain.SyncExecutor(syncExec),
				Children: []*domain.Action{{Executor: domain.SyncExecutor(syncExec)}},
			},
			contains: []string{
				`root(("root"))`,
				`root_0(["root/0"])`,
			},
		},
		{
			name: "Overlay",
			root: &domain.Action{
				Executor: domain.SyncExecutor(syncExec),
				Children: []*domain.Action{
					{Executor: domain.SyncExecutor(syncExec), Condition: always},
					{Executor: domain.SyncExecutor(syncExec)},
				},
			},
			overlay: &graph.Overlay{
				Visited:  []string{"root", "root/1", "root"},
				Skipped:  []string{"root/0"},
				Terminal: "root/1",
			},
			contains: []string{
				"class root visited;",
				"class root_0 skipped;",
				"class root_1 terminal;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.root, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_OverlayDeduplicates(t *testing.T) {
	root := &domain.Action{Executor: domain.SyncExecutor(syncExec)}
	got := graph.GenerateMermaid(root, &graph.Overlay{Visited: []string{"root", "root"}})
	if n := strings.Count(got, "class root visited;"); n != 1 {
		t.Errorf("expected one visited class line, got %d:\n%s", n, got)
	}
}
