// Package evaluator compiles condition expressions of declarative trees.
package evaluator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
	"github.com/dop251/goja"
)

// ScopeVar is the global holding the whole scope, for keys that are not
// valid identifiers (scope["api-response"]). A scope field with the same
// name wins over it.
const ScopeVar = "scope"

// Evaluator turns an expression into a condition.
type Evaluator interface {
	Compile(expr string) (domain.Condition, error)
}

// Func adapts a function to Evaluator.
type Func func(expr string) (domain.Condition, error)

// Compile implements Evaluator.
func (f Func) Compile(expr string) (domain.Condition, error) {
	return f(expr)
}

// JS evaluates JavaScript expressions with goja.
type JS struct {
	logger *slog.Logger
}

// NewJS creates a JavaScript evaluator. A nil logger discards evaluation errors.
func NewJS(logger *slog.Logger) *JS {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &JS{logger: logger}
}

// Compile parses expr once. The returned condition runs it in a fresh
// runtime per call, so it is safe for concurrent invocations.
// Only a boolean true passes; runtime errors count as false.
func (j *JS) Compile(expr string) (domain.Condition, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		return nil, fmt.Errorf("empty condition expression")
	}
	prog, err := goja.Compile("condition", "("+src+")", true)
	if err != nil {
		return nil, fmt.Errorf("failed to compile condition %q: %w", src, err)
	}

	return func(scope domain.Scope) bool {
		vm := goja.New()
		vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

		all := make(map[string]any, len(scope))
		for k, v := range scope {
			all[k] = exportValue(v)
			if err := vm.Set(k, all[k]); err != nil {
				j.logger.Debug("condition binding failed", "key", k, "error", err)
			}
		}
		if _, taken := scope[ScopeVar]; !taken {
			if err := vm.Set(ScopeVar, all); err != nil {
				j.logger.Debug("condition binding failed", "key", ScopeVar, "error", err)
			}
		}

		res, err := vm.RunProgram(prog)
		if err != nil {
			j.logger.Debug("condition evaluation failed", "expr", src, "error", err)
			return false
		}
		ok, isBool := res.Export().(bool)
		return isBool && ok
	}, nil
}

// exportValue maps engine values onto plain JavaScript values. Injected
// settlements are already strings; a future.State set by the host is not.
func exportValue(v any) any {
	switch val := v.(type) {
	case future.State:
		return string(val)
	case error:
		return val.Error()
	default:
		return v
	}
}
