// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"sync"
)

type (
	// capturedOutput holds the separately captured stdout and stderr buffers.
	capturedOutput struct {
		stdout lockedBuffer
		stderr lockedBuffer
	}

	// lockedBuffer is a bytes.Buffer safe to read while the exec copy
	// goroutines may still be writing, which happens when WaitDelay expires.
	lockedBuffer struct {
		mu  sync.Mutex
		buf bytes.Buffer
	}
)

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fill copies both streams and their combination into r.
func (c *capturedOutput) fill(r *Result) {
	if c == nil {
		return
	}
	r.Stdout = c.stdout.String()
	r.Stderr = c.stderr.String()
	r.CombinedOutput = CombineOutput(r.Stdout, r.Stderr)
}

// CombineOutput appends stderr to stdout, separated by a newline, when
// stderr is non-empty.
func CombineOutput(stdout, stderr string) string {
	switch {
	case stderr == "":
		return stdout
	case stdout == "":
		return stderr
	default:
		return stdout + "\n" + stderr
	}
}
