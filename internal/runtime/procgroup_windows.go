// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

// treeKillTimeout bounds the taskkill helper.
const treeKillTimeout = 5 * time.Second

// setupProcessGroup starts cmd in a new process group without a console
// window, and sets a Cancel function that kills the whole process tree.
// wsl.exe starts relay processes of its own, so killing only the direct
// child would leave the Linux-side scan running.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NEW_PROCESS_GROUP
	cmd.SysProcAttr.HideWindow = true

	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return os.ErrProcessDone
		}
		ctx, cancel := context.WithTimeout(context.Background(), treeKillTimeout)
		defer cancel()
		taskkill := exec.CommandContext(ctx, "taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
		if err := taskkill.Run(); err == nil {
			return nil
		}
		return cmd.Process.Kill()
	}
}
