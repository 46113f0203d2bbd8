//go:build unix

package i11e

import "golang.org/x/sys/unix"

// waitFD blocks, interruptibly, until fd is readable or writable
// (selected by events), or returns ErrInterrupted if ctx is raised first.
func waitFD(ctx *Context, fd int, events int16) error {
	fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	_, err := PollInterruptible(ctx, fds, -1)
	return err
}

// Read waits for fd to become readable, then performs a single
// non-retrying unix.Read. A Raise on ctx aborts the wait (not the syscall,
// which is never entered) with ErrInterrupted.
func Read(ctx *Context, fd int, p []byte) (int, error) {
	if err := waitFD(ctx, fd, unix.POLLIN); err != nil {
		return -1, err
	}
	return unix.Read(fd, p)
}

// Write waits for fd to become writable, then performs a single
// non-retrying unix.Write.
func Write(ctx *Context, fd int, p []byte) (int, error) {
	if err := waitFD(ctx, fd, unix.POLLOUT); err != nil {
		return -1, err
	}
	return unix.Write(fd, p)
}

// Readv waits for fd to become readable, then performs a single unix.Read
// into one buffer sized to the sum of iovs and scatters the bytes read
// across iovs in order.
func Readv(ctx *Context, fd int, iovs [][]byte) (int, error) {
	if len(iovs) == 0 {
		return -1, &InvalidArgumentError{Arg: "iovs", Reason: "must contain at least one buffer"}
	}
	if err := waitFD(ctx, fd, unix.POLLIN); err != nil {
		return -1, err
	}
	return readv(fd, iovs)
}

// Writev waits for fd to become writable, then gathers iovs into one buffer
// and performs a single unix.Write of it.
func Writev(ctx *Context, fd int, iovs [][]byte) (int, error) {
	if len(iovs) == 0 {
		return -1, &InvalidArgumentError{Arg: "iovs", Reason: "must contain at least one buffer"}
	}
	if err := waitFD(ctx, fd, unix.POLLOUT); err != nil {
		return -1, err
	}
	return writev(fd, iovs)
}

// Recvfrom waits for fd to become readable, then performs a single
// unix.Recvfrom.
func Recvfrom(ctx *Context, fd int, p []byte, flags int) (int, unix.Sockaddr, error) {
	if err := waitFD(ctx, fd, unix.POLLIN); err != nil {
		return -1, nil, err
	}
	n, from, err := unix.Recvfrom(fd, p, flags)
	return n, from, err
}

// Sendto waits for fd to become writable, then performs a single
// unix.Sendto.
func Sendto(ctx *Context, fd int, p []byte, flags int, to unix.Sockaddr) error {
	if err := waitFD(ctx, fd, unix.POLLOUT); err != nil {
		return err
	}
	return unix.Sendto(fd, p, flags, to)
}

// Recvmsg waits for fd to become readable, then performs a single
// unix.Recvmsg, returning payload bytes, out-of-band bytes, recvmsg flags
// and the sender address exactly as unix.Recvmsg does.
func Recvmsg(ctx *Context, fd int, p, oob []byte, flags int) (n, oobn, recvflags int, from unix.Sockaddr, err error) {
	if werr := waitFD(ctx, fd, unix.POLLIN); werr != nil {
		return -1, -1, 0, nil, werr
	}
	return unix.Recvmsg(fd, p, oob, flags)
}

// Sendmsg waits for fd to become writable, then performs a single
// unix.Sendmsg.
func Sendmsg(ctx *Context, fd int, p, oob []byte, to unix.Sockaddr, flags int) error {
	if err := waitFD(ctx, fd, unix.POLLOUT); err != nil {
		return err
	}
	return unix.Sendmsg(fd, p, oob, to, flags)
}

func readv(fd int, iovs [][]byte) (int, error) {
	if len(iovs) == 1 {
		return unix.Read(fd, iovs[0])
	}
	total := 0
	for _, b := range iovs {
		total += len(b)
	}
	buf := make([]byte, total)
	n, err := unix.Read(fd, buf)
	if n > 0 {
		scatter(buf[:n], iovs)
	}
	return n, err
}

func writev(fd int, iovs [][]byte) (int, error) {
	if len(iovs) == 1 {
		return unix.Write(fd, iovs[0])
	}
	total := 0
	for _, b := range iovs {
		total += len(b)
	}
	buf := make([]byte, 0, total)
	for _, b := range iovs {
		buf = append(buf, b...)
	}
	return unix.Write(fd, buf)
}

func scatter(src []byte, iovs [][]byte) {
	off := 0
	for _, b := range iovs {
		n := len(b)
		if off+n > len(src) {
			n = len(src) - off
		}
		if n <= 0 {
			return
		}
		copy(b, src[off:off+n])
		off += n
	}
}
