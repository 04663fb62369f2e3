// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds one scan.
	DefaultTimeout = 600 * time.Second
	// DefaultWaitDelay is how long Wait keeps reading pipes after the
	// child was killed or exited before closing them forcibly.
	DefaultWaitDelay = 3 * time.Second
)

// ErrEmptyArgv is reported when neither a prefix nor arguments were given.
var ErrEmptyArgv = errors.New("empty argv")

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of helper-process implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures an Executor.
	Option func(*Executor)

	// Executor runs a single external command under a wall-clock bound.
	// It holds no per-run state and may be reused sequentially or concurrently.
	Executor struct {
		timeout     time.Duration
		waitDelay   time.Duration
		execCommand ExecCommandFunc
		logger      *log.Logger
	}
)

// WithTimeout sets the wall-clock bound. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithWaitDelay sets how long pipes are drained after the child ends.
func WithWaitDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.waitDelay = d
		}
	}
}

// WithExecCommand replaces exec.CommandContext.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(e *Executor) {
		if fn != nil {
			e.execCommand = fn
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor creates an Executor with DefaultTimeout.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		timeout:     DefaultTimeout,
		waitDelay:   DefaultWaitDelay,
		execCommand: exec.CommandContext,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the configured wall-clock bound.
func (e *Executor) Timeout() time.Duration { return e.timeout }

// BuildArgv concatenates the invocation prefix and the caller's arguments
// into a fresh argv. Tokens are never joined or re-split.
func BuildArgv(prefix, args []string) []string {
	argv := make([]string, 0, len(prefix)+len(args))
	argv = append(argv, prefix...)
	return append(argv, args...)
}

// Run executes prefix ++ args and always returns a Result.
//
// The child wait and the deadline race through exec.CommandContext: if the
// child exits first the timer is released by the deferred cancel; if the
// deadline or ctx wins, the process group is killed and the output written
// so far is kept.
func (e *Executor) Run(ctx context.Context, prefix, args []string) *Result {
	argv := BuildArgv(prefix, args)
	runID := uuid.NewString()
	start := time.Now()

	result := e.run(ctx, argv)
	result.RunID = runID
	result.Argv = argv
	result.Duration = time.Since(start)

	e.logger.Debug("process finished",
		"run_id", runID,
		"kind", result.Kind,
		"exit_code", result.ExitCode,
		"duration", result.Duration)
	return result
}

func (e *Executor) run(ctx context.Context, argv []string) *Result {
	if len(argv) == 0 {
		return NewStartFailureResult(argv, ErrEmptyArgv)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := e.execCommand(runCtx, argv[0], argv[1:]...)
	captured := &capturedOutput{}
	cmd.Stdin = nil // the null device; never attach the terminal
	cmd.Stdout = &captured.stdout
	cmd.Stderr = &captured.stderr

	setupProcessGroup(cmd)
	cmd.WaitDelay = e.waitDelay

	// exec.Cmd calls Cancel when runCtx ends before Wait has reaped the
	// child, so the flag records whether the executor killed the process.
	var killed atomic.Bool
	kill := cmd.Cancel
	if kill == nil {
		kill = func() error { return cmd.Process.Kill() }
	}
	cmd.Cancel = trackCancel(kill, &killed)

	e.logger.Debug("starting process", "argv", argv, "timeout", e.timeout)
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return newKilledResult(KindInterrupted, NoteInterrupted, ctx.Err(), captured)
		}
		return NewStartFailureResult(argv, err)
	}

	waitErr := cmd.Wait()

	var result *Result
	switch {
	case killed.Load() && ctx.Err() != nil:
		result = newKilledResult(KindInterrupted, NoteInterrupted, ctx.Err(), captured)
	case killed.Load():
		result = newKilledResult(KindTimeout, NoteTimeout, context.DeadlineExceeded, captured)
	default:
		result = completedResult(cmd, waitErr, captured)
	}
	result.PID = cmd.Process.Pid
	return result
}

// trackCancel wraps kill so that killed is set only when a signal was
// actually delivered. A child that exited before the deadline but was not
// reaped yet makes kill return os.ErrProcessDone; its real exit status wins.
func trackCancel(kill func() error, killed *atomic.Bool) func() error {
	return func() error {
		err := kill()
		if !errors.Is(err, os.ErrProcessDone) {
			killed.Store(true)
		}
		return err
	}
}

// completedResult builds the Result for a child that ended without the
// executor killing it.
func completedResult(cmd *exec.Cmd, waitErr error, captured *capturedOutput) *Result {
	if name, number, ok := terminatingSignal(cmd.ProcessState); ok {
		return newSignaledResult(name, number, captured)
	}
	return newCompletedResult(exitCodeOf(cmd, waitErr), captured)
}

// exitCodeOf determines the child's exit code once Wait has returned.
func exitCodeOf(cmd *exec.Cmd, waitErr error) ExitCode {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return ExitCode(exitErr.ExitCode())
	}
	// ErrWaitDelay and pipe copy errors still leave a real exit status.
	if cmd.ProcessState != nil {
		return ExitCode(cmd.ProcessState.ExitCode())
	}
	return SentinelExitCode
}
