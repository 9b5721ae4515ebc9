// Package cancel provides cooperative cancellation: a lightweight token a
// worker checks at well-defined safe points, instead of the forced
// thread-cancellation the original HAL used (pthread_cancel). Each worker
// checks its token at well-defined safe points; shutdown sets the token and
// joins.
//
// The shape — a close-once stop channel, a callback list, a guarding mutex —
// is adapted from pkg/emergency/controller.go, stripped of its file-polling
// and OS-signal watching: a per-worker token has no stop file and no process
// signal to watch, only an explicit Cancel call.
package cancel

import "sync"

// Token is a one-shot cancellation signal. The zero value is not usable;
// construct with New.
type Token struct {
	mu        sync.Mutex
	ch        chan struct{}
	cancelled bool
	callbacks []func()
}

// New returns a fresh, un-cancelled Token.
func New() *Token {
	return &Token{ch: make(chan struct{})}
}

// Cancel triggers the token exactly once. Extra calls are no-ops. Registered
// callbacks run synchronously, in registration order, before Cancel returns —
// matching emergency.Controller.triggerStop's callback-execution order.
func (t *Token) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.cancelled = true
	close(t.ch)
	for _, cb := range t.callbacks {
		cb()
	}
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Done returns a channel that closes when Cancel is called, for use in a
// select alongside a worker's other safe points.
func (t *Token) Done() <-chan struct{} {
	return t.ch
}

// OnCancel registers a callback to run when Cancel is called. If the token is
// already cancelled, the callback runs immediately.
func (t *Token) OnCancel(cb func()) {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		cb()
		return
	}
	t.callbacks = append(t.callbacks, cb)
	t.mu.Unlock()
}
