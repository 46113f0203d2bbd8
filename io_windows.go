//go:build windows

package i11e

import "golang.org/x/sys/windows"

// Read performs a direct, unchecked windows.Read: no poll first. WSAPoll
// only operates on sockets, and fd is not always one here (pipes and
// similar handles are fair game); polling first would simply fail for
// those. ctx is accepted for signature symmetry with the unix build but is
// not consulted — there is no interruption on this path.
func Read(ctx *Context, fd windows.Handle, p []byte) (int, error) {
	return windows.Read(fd, p)
}

// Write performs a direct, unchecked windows.Write: no poll first, for the
// same reason as Read.
func Write(ctx *Context, fd windows.Handle, p []byte) (int, error) {
	return windows.Write(fd, p)
}

// Recvfrom waits for fd to become readable, then performs a single
// windows.Recvfrom.
func Recvfrom(ctx *Context, fd windows.Handle, p []byte, flags int) (int, windows.Sockaddr, error) {
	if err := waitFD(ctx, fd, POLLIN); err != nil {
		return -1, nil, err
	}
	return windows.Recvfrom(windows.Handle(fd), p, flags)
}

// Sendto waits for fd to become writable, then performs a single
// windows.Sendto.
func Sendto(ctx *Context, fd windows.Handle, p []byte, flags int, to windows.Sockaddr) error {
	if err := waitFD(ctx, fd, POLLOUT); err != nil {
		return err
	}
	return windows.Sendto(windows.Handle(fd), p, flags, to)
}

// Readv, Writev, Recvmsg and Sendmsg have no first-class WSAPoll-friendly
// equivalent in golang.org/x/sys/windows without pulling in WSARecvMsg's
// raw syscall plumbing, which nothing in this package's supplemented
// examples exercises. Callers needing vectored or ancillary-data I/O on
// Windows should compose Read/Write in a loop, or use net.Conn directly.
func Readv(ctx *Context, fd windows.Handle, iovs [][]byte) (int, error) {
	return -1, ErrUnsupported
}

func Writev(ctx *Context, fd windows.Handle, iovs [][]byte) (int, error) {
	return -1, ErrUnsupported
}

func Recvmsg(ctx *Context, fd windows.Handle, p, oob []byte, flags int) (n, oobn, recvflags int, from windows.Sockaddr, err error) {
	return -1, -1, 0, nil, ErrUnsupported
}

func Sendmsg(ctx *Context, fd windows.Handle, p, oob []byte, to windows.Sockaddr, flags int) error {
	return ErrUnsupported
}

func waitFD(ctx *Context, fd windows.Handle, events int16) error {
	fds := []PollFD{{FD: fd, Events: events}}
	_, err := PollInterruptible(ctx, fds, -1)
	return err
}
