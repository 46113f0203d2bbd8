//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package i11e

import "golang.org/x/sys/unix"

// createWakeFD allocates the wake object for PollInterruptible on BSD-family
// platforms lacking eventfd: a close-on-exec, non-blocking pipe. The read
// end is index 0, the write end index 1, matching spec.md's fallback design.
func createWakeFD() (readFD, writeFD int, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return -1, -1, err
	}
	return fds[0], fds[1], nil
}

func wakeSignal(writeFD int) {
	var b [1]byte
	_, _ = unix.Write(writeFD, b[:])
}

func closeWakeFD(readFD, writeFD int) {
	if readFD >= 0 {
		_ = unix.Close(readFD)
	}
	if writeFD >= 0 && writeFD != readFD {
		_ = unix.Close(writeFD)
	}
}

func wakeDrain(readFD int) {
	var buf [64]byte
	for {
		_, err := unix.Read(readFD, buf[:])
		if err != nil {
			return
		}
	}
}
