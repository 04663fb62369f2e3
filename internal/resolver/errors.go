// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nmapw/nmapw/internal/issue"
	"github.com/nmapw/nmapw/pkg/platform"
)

const (
	// ReasonNotOnPath means the executable was not on the search path.
	ReasonNotOnPath Reason = "not-on-path"
	// ReasonToolMissingInBridge means the probe ran but the tool is not
	// installed inside the distribution.
	ReasonToolMissingInBridge Reason = "tool-missing-in-bridge"
	// ReasonProbeTimeout means the bridge probe exceeded its bound.
	ReasonProbeTimeout Reason = "probe-timeout"
	// ReasonProbeError means the bridge probe could not run to completion.
	ReasonProbeError Reason = "probe-error"
)

var (
	// ErrToolNotFound is the sentinel matched by every *NotFoundError.
	ErrToolNotFound = errors.New("tool not found")
	// ErrProbeTimeout is returned by a ProbeFunc whose check exceeded its bound.
	ErrProbeTimeout = errors.New("bridge probe timed out")
	// ErrToolMissingInBridge is returned by a ProbeFunc when the bridge answered
	// but the tool is absent inside it.
	ErrToolMissingInBridge = errors.New("tool missing inside bridge")
	// ErrProbeFailed is returned by a ProbeFunc when the bridge itself failed.
	ErrProbeFailed = errors.New("bridge probe failed")
)

type (
	// Reason classifies why a strategy did not produce a prefix.
	Reason string

	// Attempt records one failed strategy.
	Attempt struct {
		Strategy Strategy
		// Executable is what was looked up or probed.
		Executable string
		Reason     Reason
		Err        error
	}

	// NotFoundError is returned when no strategy could locate the tool.
	NotFoundError struct {
		Profile  platform.Profile
		Tool     string
		Attempts []Attempt
	}
)

// String returns the string representation of the Reason.
func (r Reason) String() string { return string(r) }

func (a Attempt) String() string {
	s := fmt.Sprintf("%s (%s): %s", a.Strategy, a.Executable, a.Reason)
	if a.Err != nil {
		s += ": " + a.Err.Error()
	}
	return s
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s not found on %s", e.Tool, e.Profile.Family())
	for i, a := range e.Attempts {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

// Unwrap returns ErrToolNotFound so callers can use errors.Is for programmatic detection.
func (e *NotFoundError) Unwrap() error { return ErrToolNotFound }

// bridgeUnavailable reports whether the bridge was present but unusable,
// as opposed to the tool simply being absent everywhere.
func (e *NotFoundError) bridgeUnavailable() bool {
	for _, a := range e.Attempts {
		if a.Reason == ReasonProbeTimeout || a.Reason == ReasonProbeError {
			return true
		}
	}
	return false
}

// Actionable converts the error into an issue.ActionableError whose
// suggestions start with the fix for the observed failure and then list
// an install command for every platform family.
func (e *NotFoundError) Actionable() *issue.ActionableError {
	id := issue.ToolNotFoundId
	if e.bridgeUnavailable() {
		id = issue.BridgeUnavailableId
	}

	ctx := issue.NewErrorContext().
		WithOperation("locate " + e.Tool).
		WithResource(e.Profile.Family() + " host").
		WithIssue(id).
		Wrap(e)
	for _, a := range e.Attempts {
		if s := a.suggestion(e.Tool); s != "" {
			ctx.WithSuggestion(s)
		}
	}
	return ctx.WithSuggestions(installSuggestions(e.Tool)...).Build()
}

func (a Attempt) suggestion(tool string) string {
	switch a.Reason {
	case ReasonToolMissingInBridge:
		return fmt.Sprintf("Install %s inside the WSL distribution: wsl -d <distribution> -- sudo apt install %s", tool, tool)
	case ReasonProbeTimeout, ReasonProbeError:
		return "Check that the WSL distribution exists and starts: wsl -l -v (set NMAPW_BRIDGE_DISTRIBUTION to its name)"
	case ReasonNotOnPath:
		if a.Strategy == StrategyBridge {
			return "Enable WSL and install a distribution: wsl --install -d kali-linux"
		}
		return fmt.Sprintf("Make sure %s is on your PATH", tool)
	default:
		return ""
	}
}

func installSuggestions(tool string) []string {
	return []string{
		"Debian/Ubuntu/Kali: sudo apt install " + tool,
		"Fedora/RHEL: sudo dnf install " + tool,
		"Arch: sudo pacman -S " + tool,
		"macOS: brew install " + tool,
		"Windows: winget install Insecure.Nmap (or choco install " + tool + ")",
	}
}
