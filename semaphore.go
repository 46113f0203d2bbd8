package i11e

import "sync"

// Semaphore is a counting semaphore whose wait can be interrupted via a
// Context. It is intentionally not built on golang.org/x/sync/semaphore:
// that package ties cancellation to a context.Context deadline/cancel and
// gives no way for a wake action to "post an extra token," which is
// precisely the race this type's contract requires to be observable — a
// genuine Post racing with an interruption may be the one that wakes
// WaitInterruptible, and that is correct, not a bug (see WaitInterruptible).
//
// The implementation (mutex + condition variable guarding a plain counter)
// mirrors the register/wait-loop shape of dijkstracula/go-ilock's Mutex,
// generalized from four packed sub-counters to one.
type Semaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

// NewSemaphore creates a semaphore with the given initial value.
func NewSemaphore(initial int) *Semaphore {
	s := &Semaphore{count: initial}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Post increments the semaphore's value and wakes one waiter, if any are
// blocked in Wait or WaitInterruptible.
func (s *Semaphore) Post() {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	s.cond.Signal()
}

// Wait blocks until the semaphore's value is positive, then decrements it.
// It ignores interruption entirely; use WaitInterruptible to cooperate with
// a Context.
func (s *Semaphore) Wait() {
	s.mu.Lock()
	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
	s.mu.Unlock()
}

// WaitInterruptible waits on the semaphore, returning nil once acquired, or
// ErrInterrupted if an interruption raced with or preceded the wait.
//
// If no context is attached to the calling goroutine (ctx resolves to nil),
// this delegates straight to Wait. Otherwise the wake hook is "post the
// semaphore": if an interruption fires while blocked, the post unblocks the
// waiter exactly as a real token would, and the subsequent finish call
// reveals the wait was spurious. If a genuine Post happens to race with
// the interruption's own post, either may be the one WaitInterruptible
// observes consuming the token — this is the accepted race documented in
// the package: callers that get ErrInterrupted cancel regardless of which
// post they actually consumed, and the one left over remains available to
// the next waiter.
func (s *Semaphore) WaitInterruptible(ctx *Context) error {
	ctx = resolveContext(ctx)
	if ctx == nil {
		s.Wait()
		return nil
	}

	if prepare(ctx, func() { s.Post() }) {
		logf(LevelDebug, "semaphore", ctx.id, -1, nil, "wait short-circuited: already pending")
		return ErrInterrupted
	}

	s.Wait()

	if finish(ctx) {
		logf(LevelDebug, "semaphore", ctx.id, -1, nil, "wait unblocked by interruption")
		return ErrInterrupted
	}
	return nil
}
