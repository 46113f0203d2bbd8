//go:build windows

package i11e

import (
	"time"

	"golang.org/x/sys/windows"
)

// Poll event bits, mirroring POSIX POLLIN/POLLOUT for the subset WSAPoll
// supports.
const (
	POLLIN  = 0x0100
	POLLOUT = 0x0010
)

// PollFD is this package's Windows analogue of unix.PollFd: a socket handle
// plus the events being waited for and the events observed.
type PollFD struct {
	FD      windows.Handle
	Events  int16
	Revents int16
}

// wakeSlice bounds how long a single alertable sleep waits between
// WSAPoll(0) readiness checks. It trades wake latency (worst case, this
// long after a real event becomes ready with no interruption in flight)
// against spin overhead; it is not configurable because nothing in this
// package's contract depends on its exact value, only that it is small.
const wakeSlice = 20 * time.Millisecond

// PollInterruptible is PollInterruptible's Windows realization. WSAPoll has
// no native alertable-wait support, so instead of blocking in one WSAPoll
// call for the full timeout, it polls with a zero timeout in a loop,
// sleeping alertably between attempts; a Raise'd APC breaks the sleep
// early. This preserves the external contract (block up to timeoutMs,
// return early on interruption) without requiring an alertable variant of
// WSAPoll, which does not exist.
func PollInterruptible(ctx *Context, fds []PollFD, timeoutMs int) (int, error) {
	ctx = resolveContext(ctx)
	if ctx == nil {
		return pollOnce(fds, timeoutMs)
	}

	th, err := createWakeHandle()
	if err != nil {
		logf(LevelWarn, "poll", ctx.id, -1, err, "wake handle duplication failed")
		return -1, &PlatformError{Op: "DuplicateHandle", Err: err}
	}

	if prepare(ctx, func() { wakeSignalWindows(th) }) {
		closeWakeHandle(th)
		return -1, ErrInterrupted
	}

	deadline := time.Time{}
	if timeoutMs >= 0 {
		deadline = time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	}

	var n int
	var perr error
	for {
		n, perr = pollOnce(fds, 0)
		if n != 0 || perr != nil {
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		windows.SleepEx(uint32(wakeSlice.Milliseconds()), true)
		ctx.mu.Lock()
		raised := ctx.pending
		ctx.mu.Unlock()
		if raised {
			break
		}
	}

	interrupted := finish(ctx)
	closeWakeHandle(th)

	if interrupted {
		return -1, ErrInterrupted
	}
	return n, perr
}

func pollOnce(fds []PollFD, timeoutMs int) (int, error) {
	wfds := make([]windows.WSAPollFd, len(fds))
	for i, f := range fds {
		wfds[i] = windows.WSAPollFd{Fd: uintptr(f.FD), Events: f.Events}
	}
	n, err := windows.WSAPoll(wfds, timeoutMs)
	for i := range fds {
		fds[i].Revents = wfds[i].Revents
	}
	return int(n), err
}
