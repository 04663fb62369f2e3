// SPDX-License-Identifier: MPL-2.0

package runtime

import "strconv"

// SentinelExitCode marks results where no real exit code exists: the
// process never started, or it was killed by the executor.
const SentinelExitCode ExitCode = -1

// ExitCode represents a process exit status code.
// The zero value (0) means success. Negative values never come from a
// child process; SentinelExitCode is the only one the executor produces.
type ExitCode int

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// ProcessExitCode returns the value to hand to os.Exit. The sentinel maps
// to 255, which is what POSIX shells observe for exit(-1), so the wrapper
// reports the same status everywhere.
func (c ExitCode) ProcessExitCode() int {
	if c < 0 {
		return 255
	}
	return int(c)
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
