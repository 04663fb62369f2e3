// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"time"
)

const (
	// KindCompleted means a real process ran and terminated on its own.
	KindCompleted OutcomeKind = "completed"
	// KindTimeout means the deadline expired and the process was killed.
	KindTimeout OutcomeKind = "timeout"
	// KindInterrupted means the caller's context ended (e.g. SIGINT) and
	// the process was killed.
	KindInterrupted OutcomeKind = "interrupted"
	// KindStartFailure means no process could be launched.
	KindStartFailure OutcomeKind = "start_failure"
	// KindNotFound means resolution failed before any process started.
	// The executor never produces it; the CLI layer does.
	KindNotFound OutcomeKind = "not_found"

	// NoteTimeout is the Result note for KindTimeout.
	NoteTimeout = "scan timed out"
	// NoteInterrupted is the Result note for KindInterrupted.
	NoteInterrupted = "scan interrupted"
	// NoteSignaledFormat builds the Result note for a child that a signal
	// from outside nmapw terminated.
	NoteSignaledFormat = "terminated by signal %s"
)

type (
	// OutcomeKind tags the cause of a Result. The values are stable and
	// appear verbatim in structured output.
	OutcomeKind string

	// Result is the terminal outcome of one invocation.
	Result struct {
		// RunID uniquely identifies the invocation.
		RunID string
		// Argv is the exact argument vector handed to the operating system.
		Argv []string
		// Success is true iff the process exited with code 0 within the deadline.
		Success bool
		// Kind tells which terminal cause produced the result.
		Kind OutcomeKind
		// ExitCode is the child's real code, or SentinelExitCode.
		ExitCode ExitCode
		// CombinedOutput is Stdout followed by Stderr (newline-separated when both exist).
		CombinedOutput string
		// Stdout and Stderr are the separately captured streams.
		Stdout string
		Stderr string
		// Note is a human-readable cause for non-completed results and for
		// children that were ended by a signal.
		Note string
		// PID of the child, zero when it never started.
		PID int
		// Duration is the wall-clock time from start to result.
		Duration time.Duration
		// Err is the underlying error for timeouts, interrupts and start failures.
		Err error
	}
)

// newCompletedResult creates a Result for a process that exited on its own.
func newCompletedResult(code ExitCode, captured *capturedOutput) *Result {
	r := &Result{
		Kind:     KindCompleted,
		ExitCode: code,
		Success:  code.IsSuccess(),
	}
	captured.fill(r)
	return r
}

// newSignaledResult creates a completed Result for a child ended by a
// signal nmapw did not send. The code follows the shell convention of
// 128 plus the signal number.
func newSignaledResult(signal string, number int, captured *capturedOutput) *Result {
	r := newCompletedResult(ExitCode(128+number), captured)
	r.Note = fmt.Sprintf(NoteSignaledFormat, signal)
	return r
}

// newKilledResult creates a Result for a process the executor terminated.
// Output written before the kill is preserved.
func newKilledResult(kind OutcomeKind, note string, cause error, captured *capturedOutput) *Result {
	r := &Result{
		Kind:     kind,
		ExitCode: SentinelExitCode,
		Note:     note,
		Err:      cause,
	}
	captured.fill(r)
	return r
}

// NewStartFailureResult creates a Result for a command that never launched.
func NewStartFailureResult(argv []string, err error) *Result {
	name := "command"
	if len(argv) > 0 {
		name = argv[0]
	}
	return &Result{
		Argv:     argv,
		Kind:     KindStartFailure,
		ExitCode: SentinelExitCode,
		Note:     fmt.Sprintf("failed to start %s: %v", name, err),
		Err:      err,
	}
}

// NewNotFoundResult creates a Result for an invocation whose tool could
// not be resolved, so structured renderers can report it uniformly.
func NewNotFoundResult(runID string, err error) *Result {
	return &Result{
		RunID:    runID,
		Kind:     KindNotFound,
		ExitCode: SentinelExitCode,
		Note:     err.Error(),
		Err:      err,
	}
}
