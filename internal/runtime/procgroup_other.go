// SPDX-License-Identifier: MPL-2.0

//go:build !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !windows

package runtime

import "os/exec"

// setupProcessGroup leaves cmd untouched; the executor falls back to
// killing the direct child only.
func setupProcessGroup(_ *exec.Cmd) {}
