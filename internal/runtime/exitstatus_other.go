// SPDX-License-Identifier: MPL-2.0

//go:build !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd

package runtime

import "os"

// terminatingSignal always reports false: Windows has no signal exit status.
func terminatingSignal(_ *os.ProcessState) (string, int, bool) { return "", 0, false }
