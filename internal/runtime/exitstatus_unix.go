// SPDX-License-Identifier: MPL-2.0

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package runtime

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// terminatingSignal reports the signal that ended the process, if any.
// ProcessState.ExitCode is -1 in that case, which would collide with
// SentinelExitCode.
func terminatingSignal(state *os.ProcessState) (name string, number int, ok bool) {
	if state == nil {
		return "", 0, false
	}
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return "", 0, false
	}
	sig := unix.Signal(status.Signal())
	name = unix.SignalName(sig)
	if name == "" {
		name = sig.String()
	}
	return name, int(sig), true
}
