package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
)

// execute invokes an executor according to its mode.
// A non-nil future means the call is asynchronous; err is a raised failure.
func execute(ctx context.Context, exec domain.Executor, scope domain.Scope) (any, *future.Future, error) {
	switch fn := exec.(type) {
	case domain.SyncExecutor:
		v, err := fn(ctx, scope)
		return v, nil, err
	case domain.AsyncExecutor:
		f := fn(ctx, scope)
		if f == nil {
			f = future.Resolve(nil)
		}
		return nil, f, nil
	case domain.Func:
		v, err := fn(ctx, scope)
		if err != nil {
			return nil, nil, err
		}
		if f, ok := v.(*future.Future); ok && f != nil {
			return nil, f, nil
		}
		return v, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported executor %T", exec)
	}
}

// modeOf reports the effective mode of one call, for events and spans.
func modeOf(exec domain.Executor) domain.Mode {
	if exec == nil {
		return ""
	}
	return exec.Mode()
}
