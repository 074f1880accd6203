package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNilAction is returned when a tree contains a nil node.
	ErrNilAction = errors.New("nil action")
	// ErrMissingExecutor is returned when a node has no executor.
	ErrMissingExecutor = errors.New("action has no executor")
	// ErrRootCondition is returned when the root node declares a condition.
	ErrRootCondition = errors.New("root action cannot have a condition")
	// ErrReservedResultKey is returned when a result key collides with a reserved scope key.
	ErrReservedResultKey = errors.New("reserved result key")
	// ErrCycle is returned when a node is its own ancestor.
	ErrCycle = errors.New("action tree contains a cycle")
	// ErrUnknownExecutor is returned when a named executor is not registered.
	ErrUnknownExecutor = errors.New("unknown executor")
	// ErrUnknownCondition is returned when a named condition is not registered.
	ErrUnknownCondition = errors.New("unknown condition")
)

// PanicError carries a panic raised by an executor or condition after the
// invocation already returned a deferred result.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("action panicked: %v", e.Value)
}
