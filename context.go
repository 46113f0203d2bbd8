// Package i11e implements the interruption core: a facility that lets one
// goroutine cooperatively wake another out of an otherwise-uninterruptible
// blocking wait (a counting-semaphore acquisition, a readiness multiplex, or
// a syscall-backed read/write layered on top of one).
//
// The handshake that makes the wake reliable — an interruption may be
// raised before, during, or after the wait, and may race with the wait
// completing on its own (a real post or real readiness) — is the subject of
// this package; see Context, Attach/Detach, and Raise.
package i11e

import (
	"sync"
	"sync/atomic"
)

// hook is the action Raise invokes on the goroutine that armed it. It is a
// tagged closure rather than a bare function pointer (Go has no use for an
// untyped opaque data argument the way the C original does), but plays the
// same role: "post the semaphore," "write a byte to the wake pipe," "queue
// an APC on the waiting thread."
type hook func()

var nextContextID atomic.Uint64

// Context is per-waiter interruption state: a pending flag, the lock that
// serializes every read-modify-write of it and every hook invocation, and
// an optional wake hook installed by prepare.
//
// A Context must outlive every Attach of it and every prepare/finish
// bracket that names it. At most one hook is installed at a time; prepare
// requires no hook to be installed, and finish always restores that state.
type Context struct {
	id uint64

	mu      sync.Mutex
	pending bool
	hook    hook

	// attached is a debug-only bit: true iff some goroutine currently has
	// this Context installed via Attach. It exists to catch a Context
	// being attached twice concurrently, which would violate invariant 5
	// of the interruption contract (prepare may only be called by the
	// attached goroutine).
	attached atomic.Bool

	debugAssertions bool
}

// NewContext allocates an interruption context. Every successful call must
// be paired with Close once the context is no longer attached to any
// goroutine and has no armed hook.
func NewContext(opts ...ContextOption) *Context {
	cfg := resolveContextOptions(opts)
	ctx := &Context{
		id:              nextContextID.Add(1),
		debugAssertions: cfg.debugAssertions,
	}
	registryAcquire()
	logf(LevelDebug, "context", ctx.id, -1, nil, "context created")
	return ctx
}

// Close releases the context. It is a caller-contract violation to call
// Close while a hook is still installed or while the context is attached to
// any goroutine; with debug assertions enabled this panics, matching the
// source assertions this facility is modeled on.
func (c *Context) Close() error {
	c.mu.Lock()
	hookSet := c.hook != nil
	c.mu.Unlock()

	if c.debugAssertions && hookSet {
		panic("i11e: Close called with a hook still installed")
	}
	if c.debugAssertions && c.attached.Load() {
		panic("i11e: Close called while still attached to a goroutine")
	}

	registryRelease()
	logf(LevelDebug, "context", c.id, -1, nil, "context closed")
	return nil
}

// Raise requests that whichever goroutine has this Context attached abort
// its current or next interruptible wait. Raise is reentrant and may be
// called from any goroutine, including concurrently with itself.
//
// It acquires the context lock, sets the pending flag, and invokes the
// currently installed hook, if any, all under that lock — guaranteeing a
// concurrent prepare/finish cannot observe or mutate the hook mid-invocation.
func (c *Context) Raise() {
	c.mu.Lock()
	c.pending = true
	h := c.hook
	if h != nil {
		h()
	}
	c.mu.Unlock()

	logf(LevelDebug, "context", c.id, -1, nil, "raised (hook armed=%v)", h != nil)
}

// ID returns an opaque, process-unique identifier for this context, useful
// only for log correlation.
func (c *Context) ID() uint64 {
	return c.id
}
