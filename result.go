package fetchengo

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
)

// Result is the handle returned synchronously from every verb method. It
// wraps a single in-flight call and owns that call's cancellation
// controller. IsAborted and IsFinished are monotonic: once true they never
// reset, and they are scoped to this one call.
type Result struct {
	done chan struct{}

	mu    sync.Mutex
	value any
	body  []byte
	err   error

	cancel   context.CancelCauseFunc
	aborted  atomic.Bool
	finished atomic.Bool
	settled  atomic.Bool
}

func newResult(cancel context.CancelCauseFunc) *Result {
	return &Result{done: make(chan struct{}), cancel: cancel}
}

// Abort triggers the call's cancellation controller. It is idempotent, and a
// no-op once the call has finished; flags are never retroactively altered.
func (r *Result) Abort() {
	if r.settled.Load() {
		return
	}
	r.cancel(ErrAborted)
}

// IsAborted reports whether the call was cancelled (by Abort or by the
// timeout timer).
func (r *Result) IsAborted() bool {
	return r.aborted.Load()
}

// IsFinished reports whether the call ran to completion. Cancellation is
// distinguished from completion: an aborted call never finishes.
func (r *Result) IsFinished() bool {
	return r.finished.Load()
}

// Done returns a channel closed once the call settled, for select
// composition.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the call settles or ctx is done, and returns the parsed
// value or the normalized *RequestError.
func (r *Result) Wait(ctx context.Context) (any, error) {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolve settles the result with a parsed value. body keeps the raw
// response bytes for typed decoding.
func (r *Result) resolve(value any, body []byte) {
	if !r.settled.CompareAndSwap(false, true) {
		return
	}
	r.mu.Lock()
	r.value = value
	r.body = body
	r.mu.Unlock()
	r.finished.Store(true)
	close(r.done)
}

// reject settles the result with a normalized error. An abort leaves
// finished false.
func (r *Result) reject(err *RequestError, abort bool) {
	if !r.settled.CompareAndSwap(false, true) {
		return
	}
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	if abort {
		r.aborted.Store(true)
	} else {
		r.finished.Store(true)
	}
	close(r.done)
}

// Await waits for the call and decodes the response into T. For JSON clients
// the raw body is unmarshalled into T; for other payload types the parsed
// value must already be a T.
func Await[T any](ctx context.Context, r *Result) (T, error) {
	var out T
	value, err := r.Wait(ctx)
	if err != nil {
		return out, err
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}
	r.mu.Lock()
	body := r.body
	r.mu.Unlock()
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, err
	}
	return out, nil
}
