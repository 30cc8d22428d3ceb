//go:build windows

package power

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

const (
	esSystemRequired   = 0x00000001
	esDisplayRequired  = 0x00000002
	esAwayModeRequired = 0x00000040
	esContinuous       = 0x80000000
)

var (
	kernel32                    = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")
)

// executionStateInhibitor pins a goroutine to an OS thread for the lifetime of
// the handle, since the execution state belongs to the thread that set it.
type executionStateInhibitor struct{}

func newInhibitor(string) Inhibitor {
	return executionStateInhibitor{}
}

func (executionStateInhibitor) Acquire(string) (Handle, error) {
	h := &executionStateHandle{
		release: make(chan struct{}),
		done:    make(chan struct{}),
	}
	started := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(h.done)

		err := setThreadExecutionState(esContinuous | esSystemRequired | esDisplayRequired | esAwayModeRequired)
		started <- err
		if err != nil {
			return
		}
		<-h.release
		_ = setThreadExecutionState(esContinuous)
	}()

	if err := <-started; err != nil {
		return nil, err
	}
	return h, nil
}

type executionStateHandle struct {
	release chan struct{}
	done    chan struct{}
}

func (h *executionStateHandle) Release() error {
	close(h.release)
	<-h.done
	return nil
}

func setThreadExecutionState(flags uint32) error {
	r, _, err := procSetThreadExecutionState.Call(uintptr(flags))
	if r == 0 {
		return fmt.Errorf("SetThreadExecutionState: %w", err)
	}
	return nil
}
