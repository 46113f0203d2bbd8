//go:build unix

package i11e

import (
	"golang.org/x/sys/unix"
)

// stackThreshold mirrors the original's fast-path cutoff (255): below it
// the extended pollfd slice is backed by a small fixed-size array the
// compiler is free to keep off the heap; at or above it we allocate. Go has
// no language-level "this must live on the stack" guarantee, so this is
// documented as a hint, not a contract.
const stackThreshold = 256

// PollInterruptible waits for readiness on fds, exactly like unix.Poll,
// except that a Raise on ctx (or whatever context is attached to the
// calling goroutine, if ctx is nil) aborts the wait early.
//
// Return value contract follows unix.Poll: n ready descriptors (with
// Revents populated in fds), or -1 with an error. If interrupted, the error
// is ErrInterrupted and fds' Revents are left as poll last wrote them
// (possibly all zero, if the wake descriptor was the only one ready).
//
// If no context is attached, this delegates straight to unix.Poll.
func PollInterruptible(ctx *Context, fds []unix.PollFd, timeoutMs int) (int, error) {
	ctx = resolveContext(ctx)
	if ctx == nil {
		return unix.Poll(fds, timeoutMs)
	}

	if len(fds) < stackThreshold-1 {
		var stack [stackThreshold]unix.PollFd
		return pollInterruptibleInner(ctx, fds, timeoutMs, stack[:len(fds)+1])
	}
	return pollInterruptibleInner(ctx, fds, timeoutMs, make([]unix.PollFd, len(fds)+1))
}

func pollInterruptibleInner(ctx *Context, fds []unix.PollFd, timeoutMs int, ufd []unix.PollFd) (int, error) {
	readFD, writeFD, err := createWakeFD()
	if err != nil {
		logf(LevelWarn, "poll", ctx.id, -1, err, "wake object allocation failed")
		return -1, &PlatformError{Op: "createWakeFD", Err: err}
	}

	copy(ufd, fds)
	nfds := len(fds)
	ufd[nfds] = unix.PollFd{Fd: int32(readFD), Events: unix.POLLIN}

	if prepare(ctx, func() { wakeSignal(writeFD) }) {
		closeWakeFD(readFD, writeFD)
		logf(LevelDebug, "poll", ctx.id, -1, nil, "poll short-circuited: already pending")
		return -1, ErrInterrupted
	}

	ret, perr := unix.Poll(ufd, timeoutMs)

	copy(fds, ufd[:nfds])

	if ret > 0 && ufd[nfds].Revents != 0 {
		wakeDrain(readFD)
		ret--
	}

	interrupted := finish(ctx)
	closeWakeFD(readFD, writeFD)

	if interrupted {
		logf(LevelDebug, "poll", ctx.id, readFD, nil, "poll interrupted")
		return -1, ErrInterrupted
	}
	return ret, perr
}
