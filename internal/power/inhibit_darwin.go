//go:build darwin

package power

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// caffeinateInhibitor runs caffeinate bound to our pid so the assertion
// also ends if the app dies without releasing it.
type caffeinateInhibitor struct{}

func newInhibitor(string) Inhibitor {
	return caffeinateInhibitor{}
}

func (caffeinateInhibitor) Acquire(string) (Handle, error) {
	cmd := exec.Command("caffeinate", "-d", "-i", "-s", "-w", strconv.Itoa(os.Getpid()))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start caffeinate: %w", err)
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	return &caffeinateHandle{cmd: cmd, done: done}, nil
}

type caffeinateHandle struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func (h *caffeinateHandle) Release() error {
	if err := h.cmd.Process.Kill(); err != nil {
		select {
		case <-h.done:
			return nil
		default:
		}
		return fmt.Errorf("stop caffeinate: %w", err)
	}
	<-h.done
	return nil
}
