// Package barrier implements a cross-lane rendezvous: a named barrier that
// every participating lane must reach before any of them is released, with a
// per-arrival timeout and "poisoning" on timeout so a late arrival to an
// already-released group never blocks forever.
//
// There is no rendezvous of this shape elsewhere in this module, so this
// package is new code. It follows the channel-close-as-broadcast idiom used
// throughout (pkg/cancel.Token's Done channel) rather than condition
// variables, since a closed channel is the idiomatic Go way to wake every
// waiter at once.
package barrier

import (
	"sync"
	"time"

	"github.com/jihwankim/hrcls/pkg/halerr"
)

// group tracks one named barrier's in-progress rendezvous.
type group struct {
	expected int
	arrived  int
	release  chan struct{}
	poisoned bool
}

// Barrier coordinates named rendezvous points shared across lanes. The zero
// value is not usable; construct with New.
type Barrier struct {
	mu     sync.Mutex
	groups map[string]*group
}

// New returns a ready-to-use Barrier.
func New() *Barrier {
	return &Barrier{groups: make(map[string]*group)}
}

// Arrive blocks until expected participants have all called Arrive with the
// same groupID, then releases every one of them at once: every arrival
// happens-before every release.
//
// If timeoutUs elapses before the group fills, Arrive poisons the group: it
// returns halerr.Timeout to the caller, and every other waiter already
// blocked on that groupID is released immediately with the same error. Once
// poisoned, the group is removed; a subsequent Arrive under the same
// groupID starts a fresh rendezvous rather than reusing the broken one.
func (b *Barrier) Arrive(groupID string, expected int, timeoutUs uint32) error {
	if expected <= 0 {
		return halerr.New(halerr.InvalidParam, "expected participant count must be positive")
	}

	b.mu.Lock()
	g, ok := b.groups[groupID]
	if !ok {
		g = &group{expected: expected, release: make(chan struct{})}
		b.groups[groupID] = g
	} else if g.expected != expected {
		b.mu.Unlock()
		return halerr.New(halerr.InvalidParam, "expected participant count mismatch for in-progress group")
	}

	g.arrived++
	released := g.arrived >= g.expected
	if released {
		delete(b.groups, groupID)
		close(g.release)
	}
	relCh := g.release
	b.mu.Unlock()

	if released {
		return nil
	}

	timer := time.NewTimer(time.Duration(timeoutUs) * time.Microsecond)
	defer timer.Stop()

	select {
	case <-relCh:
		b.mu.Lock()
		poisoned := g.poisoned
		b.mu.Unlock()
		if poisoned {
			return halerr.New(halerr.Timeout, "barrier group poisoned by a timed-out participant")
		}
		return nil
	case <-timer.C:
		b.mu.Lock()
		if b.groups[groupID] == g {
			g.poisoned = true
			delete(b.groups, groupID)
			close(g.release)
		}
		b.mu.Unlock()
		return halerr.New(halerr.Timeout, "barrier arrival timed out")
	}
}

// Reset discards any in-progress rendezvous for groupID without releasing
// its waiters. Intended for shutdown paths only; callers with waiters still
// blocked on groupID should poison it via a normal timeout instead, so those
// waiters observe a well-defined error rather than hanging indefinitely.
func (b *Barrier) Reset(groupID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.groups, groupID)
}
