package future

import (
	"context"
	"errors"
	"sync"
)

// State is the settlement state of a Future.
type State string

const (
	// Pending means the future has not settled yet.
	Pending State = ""
	// Fulfilled means the future settled with a value.
	Fulfilled State = "fulfilled"
	// Rejected means the future settled with an error.
	Rejected State = "rejected"
)

// ErrNilRejection is the reason used when a future is rejected with a nil error.
var ErrNilRejection = errors.New("future rejected with nil error")

// Future is a value that becomes available later. It settles exactly once.
type Future struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
	state State
}

// New returns a pending future together with the functions that settle it.
// Only the first call to either function has an effect.
func New() (*Future, func(any), func(error)) {
	f := &Future{done: make(chan struct{})}
	return f, f.resolve, f.reject
}

// Resolve returns a future already fulfilled with v.
func Resolve(v any) *Future {
	f, resolve, _ := New()
	resolve(v)
	return f
}

// Reject returns a future already rejected with err.
func Reject(err error) *Future {
	f, _, reject := New()
	reject(err)
	return f
}

// Go runs fn on its own goroutine and settles the returned future with its outcome.
func Go(ctx context.Context, fn func(context.Context) (any, error)) *Future {
	f, resolve, reject := New()
	go func() {
		v, err := fn(ctx)
		if err != nil {
			reject(err)
			return
		}
		resolve(v)
	}()
	return f
}

func (f *Future) resolve(v any) {
	f.once.Do(func() {
		f.value = v
		f.state = Fulfilled
		close(f.done)
	})
}

func (f *Future) reject(err error) {
	if err == nil {
		err = ErrNilRejection
	}
	f.once.Do(func() {
		f.err = err
		f.state = Rejected
		close(f.done)
	})
}

// Done returns a channel closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// State reports the settlement state without blocking.
func (f *Future) State() State {
	select {
	case <-f.done:
		return f.state
	default:
		return Pending
	}
}

// Wait blocks until the future settles.
func (f *Future) Wait() (any, error) {
	<-f.done
	return f.value, f.err
}

// Await blocks until the future settles or ctx ends. A context error leaves
// the future untouched.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
