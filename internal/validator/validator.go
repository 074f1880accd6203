package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Problem is a single defect found at a position of the tree.
type Problem struct {
	Path string
	Err  error
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s: %v", p.Path, p.Err)
}

func (p Problem) Unwrap() error {
	return p.Err
}

// ValidationError aggregates every problem found in a tree.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.Error()
	}
	return fmt.Sprintf("found %d errors:\n- %s", len(e.Problems), strings.Join(lines, "\n- "))
}

// Unwrap exposes the individual problems to errors.Is / errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Problems))
	for i, p := range e.Problems {
		errs[i] = p
	}
	return errs
}

// ValidateTree checks an action tree before it is composed.
// It reports nil nodes, missing executors, a gated root, reserved result keys and cycles.
func ValidateTree(root *domain.Action) error {
	if root == nil {
		return &ValidationError{Problems: []Problem{{Path: "root", Err: domain.ErrNilAction}}}
	}

	v := &walker{onPath: make(map[*domain.Action]bool)}
	if root.Condition != nil {
		v.add("root", domain.ErrRootCondition)
	}
	v.walk(root, "root")

	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

type walker struct {
	onPath   map[*domain.Action]bool
	problems []Problem
}

func (v *walker) add(path string, err error) {
	v.problems = append(v.problems, Problem{Path: path, Err: err})
}

func (v *walker) walk(a *domain.Action, path string) {
	if a == nil {
		v.add(path, domain.ErrNilAction)
		return
	}
	if v.onPath[a] {
		v.add(path, domain.ErrCycle)
		return
	}

	if a.Executor == nil || isNilExecutor(a.Executor) {
		v.add(path, domain.ErrMissingExecutor)
	}
	switch strings.TrimSpace(a.ResultKey) {
	case domain.SettlementKey:
		v.add(path, fmt.Errorf("%w: %q", domain.ErrReservedResultKey, a.ResultKey))
	case "":
		if a.ResultKey != "" {
			v.add(path, fmt.Errorf("%w: blank key", domain.ErrReservedResultKey))
		}
	}

	v.onPath[a] = true
	for i, child := range a.Children {
		v.walk(child, path+"/"+strconv.Itoa(i))
	}
	delete(v.onPath, a)
}

// isNilExecutor catches typed nil funcs stored in the Executor interface.
func isNilExecutor(e domain.Executor) bool {
	switch fn := e.(type) {
	case domain.SyncExecutor:
		return fn == nil
	case domain.AsyncExecutor:
		return fn == nil
	case domain.Func:
		return fn == nil
	}
	return false
}
