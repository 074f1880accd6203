package domain

import "github.com/aretw0/arbor/pkg/future"

// Reserved scope keys.
const (
	// DefaultResultKey holds the latest result when the producing node sets no ResultKey.
	DefaultResultKey = "returnValue"
	// SettlementKey holds the settlement state of the latest asynchronous node.
	SettlementKey = "settlement"
	// InitialValueKey holds an initial input that is not a field mapping.
	InitialValueKey = "initialValue"
)

// Scope is the context object injected into executors and conditions.
type Scope map[string]any

// Get returns the value stored under key.
func (s Scope) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Settlement returns the injected settlement state, or future.Pending when absent.
// The engine injects it as a plain string; a future.State is accepted too.
func (s Scope) Settlement() future.State {
	switch st := s[SettlementKey].(type) {
	case string:
		return future.State(st)
	case future.State:
		return st
	}
	return future.Pending
}

// Fulfilled reports whether the latest asynchronous node fulfilled.
func (s Scope) Fulfilled() bool {
	return s.Settlement() == future.Fulfilled
}

// Rejected reports whether the latest asynchronous node rejected.
func (s Scope) Rejected() bool {
	return s.Settlement() == future.Rejected
}

// Clone returns a shallow copy.
func (s Scope) Clone() Scope {
	out := make(Scope, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Inject selects which parts of the execution context are merged into a Scope.
type Inject uint8

const (
	// InjectDefault injects everything (input fields, latest result, settlement).
	InjectDefault Inject = 0
	// InjectInput spreads the initial input fields.
	InjectInput Inject = 1 << (iota - 1)
	// InjectResult sets the latest result under the active result key.
	InjectResult
	// InjectSettlement sets the settlement state of the latest asynchronous node.
	InjectSettlement
	// InjectNothing yields an empty scope.
	InjectNothing
)

// InjectAll is the explicit form of the default.
const InjectAll = InjectInput | InjectResult | InjectSettlement

// Has reports whether part is selected, resolving the default.
func (i Inject) Has(part Inject) bool {
	if i == InjectDefault {
		i = InjectAll
	}
	return i&part != 0
}

// String renders the selection for logs.
func (i Inject) String() string {
	switch {
	case i == InjectDefault:
		return "default"
	case i&InjectNothing != 0:
		return "nothing"
	}
	s := ""
	for _, p := range []struct {
		part Inject
		name string
	}{{InjectInput, "input"}, {InjectResult, "result"}, {InjectSettlement, "settlement"}} {
		if i&p.part == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += p.name
	}
	return s
}
