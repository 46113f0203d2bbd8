package i11e

import (
	"runtime"
	"sync"
)

// The process-wide registry plays the role of the C original's reference-
// counted thread-local slot: Go has no native thread-local storage (and
// goroutines aren't OS threads), so the "slot" is a map keyed by goroutine
// ID, guarded by one mutex. The reference count exists for parity with the
// source design and catches a Close without a matching NewContext (an
// underflow panics); registrySnapshot, used by tests, reports the number of
// attached slots rather than the count. Unlike the C original there is
// nothing to allocate or free when the count transitions 0<->1, since the
// map always exists.
var registry struct {
	mu    sync.Mutex
	refs  uint64
	slots map[uint64]*Context
}

func init() {
	registry.slots = make(map[uint64]*Context)
}

func registryAcquire() {
	registry.mu.Lock()
	registry.refs++
	registry.mu.Unlock()
}

func registryRelease() {
	registry.mu.Lock()
	if registry.refs == 0 {
		registry.mu.Unlock()
		panic("i11e: registry reference count underflow")
	}
	registry.refs--
	registry.mu.Unlock()
}

// registrySnapshot returns the number of goroutines that currently have a
// context attached. Exposed for tests asserting that Attach/Detach never
// leaks an entry.
func registrySnapshot() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.slots)
}

// getGoroutineID returns the current goroutine's runtime-assigned ID by
// parsing the leading "goroutine N " of its stack trace. This is the same
// technique Go programs reach for when they need a goroutine identity and
// have no business spawning a new one just to carry it — there is no
// supported API for this, but the stack trace format is stable enough in
// practice for the debug-assertion and registry-keying purposes here (this
// package never makes correctness depend on the ID being unique forever,
// only unique among goroutines simultaneously attached).
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// Attach installs ctx as the interruption context of the calling goroutine
// and returns whatever context was previously attached (nil if none). This
// is spec's "set" operation: callers push a context across a logical scope
// and pop it with Detach(prior).
//
// ctx may be nil, meaning "detach whatever is attached, attach nothing."
func Attach(ctx *Context) (prior *Context) {
	gid := getGoroutineID()

	registry.mu.Lock()
	prior = registry.slots[gid]
	if ctx == nil {
		delete(registry.slots, gid)
	} else {
		registry.slots[gid] = ctx
	}
	registry.mu.Unlock()

	if prior != nil {
		prior.attached.Store(false)
	}
	if ctx != nil {
		if ctx.debugAssertions && ctx.attached.Load() {
			panic("i11e: Attach called with a context already attached elsewhere")
		}
		ctx.attached.Store(true)
	}
	return prior
}

// Detach restores prior as the calling goroutine's attached context (as
// returned by a matching Attach). The idiomatic call shape is:
//
//	prior := i11e.Attach(ctx)
//	defer i11e.Detach(prior)
func Detach(prior *Context) {
	Attach(prior)
}

// attachedContext returns the context currently attached to the calling
// goroutine, or nil.
func attachedContext() *Context {
	gid := getGoroutineID()
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.slots[gid]
}

// resolveContext implements this package's reconciliation of explicit
// context-passing with the ambient/attached binding (see SPEC_FULL.md's
// Open Question 1): if explicit is non-nil it must match whatever is
// attached to the calling goroutine (or nothing may be attached yet, in
// which case explicit is trusted); if explicit is nil, the attached
// context, if any, is used.
func resolveContext(explicit *Context) *Context {
	attached := attachedContext()
	if explicit == nil {
		return attached
	}
	if attached != nil && attached != explicit && explicit.debugAssertions {
		panic("i11e: explicit context does not match the context attached to this goroutine")
	}
	return explicit
}
