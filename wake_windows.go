//go:build windows

package i11e

import "golang.org/x/sys/windows"

// createWakeHandle duplicates a handle to the calling thread; it is the
// wake object a Raise-triggered APC is queued against. There is nothing to
// read or drain on Windows — the APC callback body is a no-op, its only
// purpose being to break the alertable sleep in PollInterruptible out of
// its wait early.
func createWakeHandle() (windows.Handle, error) {
	var th windows.Handle
	proc := windows.CurrentProcess()
	curThread := windows.CurrentThread()
	err := windows.DuplicateHandle(proc, curThread, proc, &th, 0, false, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		return 0, err
	}
	return th, nil
}

func closeWakeHandle(h windows.Handle) {
	if h != 0 {
		_ = windows.CloseHandle(h)
	}
}

// wakeAPC is queued via QueueUserAPC against the duplicated thread handle.
// Its only job is to exist: delivering any user-mode APC to an alertable
// wait (windows.SleepEx with alertable=true) causes that wait to return
// early with WAIT_IO_COMPLETION, after which PollInterruptible checks
// whether an interruption is pending.
var wakeAPCProc = windows.NewCallback(func(_ uintptr) uintptr { return 0 })

func wakeSignalWindows(th windows.Handle) {
	_ = windows.QueueUserAPC(wakeAPCProc, th, 0)
}
