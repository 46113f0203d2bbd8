package i11e

// prepare arms ctx's wake hook ahead of a blocking call. Preconditions: ctx
// is (or is about to become) the attached context of the calling goroutine,
// and no hook is currently installed.
//
// If an interruption is already pending, prepare consumes it (clears
// pending, leaves the hook unset) and reports alreadyPending=true, telling
// the caller to short-circuit the blocking call before it begins. Otherwise
// it installs h and reports alreadyPending=false.
func prepare(ctx *Context, h hook) (alreadyPending bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if ctx.debugAssertions && ctx.hook != nil {
		panic("i11e: prepare called with a hook already installed")
	}

	if ctx.pending {
		ctx.pending = false
		return true
	}
	ctx.hook = h
	return false
}

// finish disarms ctx's wake hook after a blocking call returns (by any
// means, including the waiting goroutine abandoning the wait on its own).
// It reports interrupted=true if an interruption was pending at the time of
// the call, clearing it; reports interrupted=false otherwise.
//
// Because finish acquires ctx.mu, and Raise holds that same lock across the
// entire hook invocation, a finish call cannot return while a Raise call on
// the same context is still inside the hook — the caller is therefore safe
// to free or reuse whatever the hook acted on (a semaphore, a wake pipe)
// immediately after finish returns. The caller must not, however, hold any
// resource the hook itself needs in order to complete, or a concurrent
// Raise will deadlock waiting for finish's lock acquisition while finish
// waits for that resource.
func finish(ctx *Context) (interrupted bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	ctx.hook = nil
	if ctx.pending {
		ctx.pending = false
		return true
	}
	return false
}
