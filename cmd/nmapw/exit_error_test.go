// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nmapw/nmapw/internal/runtime"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"exit error", &ExitError{Code: 3}, 3},
		{"wrapped exit error", fmt.Errorf("scan: %w", &ExitError{Code: 4}), 4},
		{"service error", newServiceError(&ExitError{Code: 1}, 0, ""), 1},
		{"plain error", errors.New("boom"), wrapperFailureExitCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
	cause := errors.New("scan timed out")
	err := &ExitError{Code: 255, Err: cause}
	if err.Error() != "scan timed out" || !errors.Is(err, cause) {
		t.Errorf("ExitError does not expose its cause: %v", err)
	}
}

func TestResultExitError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  *runtime.Result
		want int
	}{
		{"success", &runtime.Result{Success: true, Kind: runtime.KindCompleted}, 0},
		{"tool failure", &runtime.Result{Kind: runtime.KindCompleted, ExitCode: 1}, 1},
		{"timeout", &runtime.Result{Kind: runtime.KindTimeout, ExitCode: runtime.SentinelExitCode}, 255},
		{"start failure", &runtime.Result{Kind: runtime.KindStartFailure, ExitCode: runtime.SentinelExitCode}, 255},
		{"interrupted", &runtime.Result{Kind: runtime.KindInterrupted, ExitCode: runtime.SentinelExitCode}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(resultExitError(tt.res)); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}
