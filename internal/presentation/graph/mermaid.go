package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Overlay contains traversal data to visualize on the tree.
type Overlay struct {
	// Visited holds the tree paths of nodes whose executor ran.
	Visited []string
	// Skipped holds the tree paths of nodes whose condition failed.
	Skipped []string
	// Terminal is the path of the leaf that ended the traversal, if any.
	Terminal string
}

// GenerateMermaid produces a Mermaid flowchart for an action tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Async: [[Subroutine]]
// - Inferred: {{Hexagon}}
// - Leaf: ([Stadium])
// - Default: [Rectangle]
// Gated edges are drawn dotted. Overlay styles are applied if provided.
func GenerateMermaid(root *domain.Action, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	if root != nil {
		g := &generator{sb: &sb, onPath: make(map[*domain.Action]bool)}
		g.node(root, "root", true)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef skipped fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:3,color:#616161;\n")
		sb.WriteString("    classDef terminal fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		writeClass(&sb, overlay.Visited, "visited")
		writeClass(&sb, overlay.Skipped, "skipped")
		if overlay.Terminal != "" {
			sb.WriteString(fmt.Sprintf("    class %s terminal;\n", sanitizeMermaidID(overlay.Terminal)))
		}
	}

	return sb.String()
}

type generator struct {
	sb     *strings.Builder
	onPath map[*domain.Action]bool
}

func (g *generator) node(a *domain.Action, path string, isRoot bool) {
	id := sanitizeMermaidID(path)
	opener, closer := "[", "]"

	var mode domain.Mode
	if a.Executor != nil {
		mode = a.Executor.Mode()
	}
	switch {
	case isRoot:
		opener, closer = "((", "))"
	case mode == domain.ModeAsync:
		opener, closer = "[[", "]]"
	case mode == domain.ModeInferred:
		opener, closer = "{{", "}}"
	case a.IsLeaf():
		opener, closer = "([", "])"
	}

	label := a.Name
	if label == "" {
		label = path
	}
	label = strings.ReplaceAll(label, "\"", "'")
	if a.ResultKey != "" {
		label = fmt.Sprintf("%s <br/> → %s", label, a.ResultKey)
	}
	g.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

	if g.onPath[a] {
		return
	}
	g.onPath[a] = true
	defer delete(g.onPath, a)

	for i, child := range a.Children {
		if child == nil {
			continue
		}
		childPath := path + "/" + strconv.Itoa(i)
		arrow := "-->"
		if child.Condition != nil {
			arrow = "-. when .->"
		}
		g.sb.WriteString(fmt.Sprintf("    %s %s %s\n", id, arrow, sanitizeMermaidID(childPath)))
		g.node(child, childPath, false)
	}
}

func writeClass(sb *strings.Builder, paths []string, class string) {
	seen := make(map[string]bool)
	for _, p := range paths {
		safeID := sanitizeMermaidID(p)
		if !seen[safeID] && safeID != "" {
			seen[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", safeID, class))
		}
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
