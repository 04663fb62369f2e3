// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/nmapw/nmapw/internal/config"
	"github.com/nmapw/nmapw/internal/issue"
	"github.com/nmapw/nmapw/internal/runtime"
)

// report is the structured form of one invocation, written to stdout in
// the json and toml output modes.
type report struct {
	RunID          string   `json:"run_id" toml:"run_id"`
	Success        bool     `json:"success" toml:"success"`
	Kind           string   `json:"kind" toml:"kind"`
	ExitCode       int      `json:"exit_code" toml:"exit_code"`
	Strategy       string   `json:"strategy,omitempty" toml:"strategy,omitempty"`
	Argv           []string `json:"argv,omitempty" toml:"argv,omitempty"`
	Note           string   `json:"note,omitempty" toml:"note,omitempty"`
	Duration       string   `json:"duration" toml:"duration"`
	CombinedOutput string   `json:"combined_output" toml:"combined_output"`
	Stdout         string   `json:"stdout" toml:"stdout"`
	Stderr         string   `json:"stderr" toml:"stderr"`
	Suggestions    []string `json:"suggestions,omitempty" toml:"suggestions,omitempty"`
}

func newReport(res *runtime.Result, strategy string) report {
	return report{
		RunID:          res.RunID,
		Success:        res.Success,
		Kind:           string(res.Kind),
		ExitCode:       int(res.ExitCode),
		Strategy:       strategy,
		Argv:           res.Argv,
		Note:           res.Note,
		Duration:       res.Duration.String(),
		CombinedOutput: res.CombinedOutput,
		Stdout:         res.Stdout,
		Stderr:         res.Stderr,
	}
}

// writeReport encodes r in the given structured format.
func writeReport(w io.Writer, format config.OutputFormat, r report) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case config.OutputJSON:
		data, err = json.MarshalIndent(r, "", "  ")
		data = append(data, '\n')
	case config.OutputTOML:
		data, err = toml.Marshal(r)
	default:
		return &config.InvalidOutputFormatError{Value: format}
	}
	if err != nil {
		return fmt.Errorf("encode %s report: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

// writeStreams forwards the tool's captured output to the matching streams.
func writeStreams(stdout, stderr io.Writer, res *runtime.Result) {
	if res.Stdout != "" {
		fmt.Fprint(stdout, res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprint(stderr, res.Stderr)
	}
}

// failureTitle and failureIssue describe non-completed results.
func failureTitle(kind runtime.OutcomeKind) string {
	switch kind {
	case runtime.KindTimeout:
		return "Scan timed out"
	case runtime.KindInterrupted:
		return "Scan interrupted"
	case runtime.KindStartFailure:
		return "Scan could not start"
	default:
		return "Scan failed"
	}
}

func failureIssue(kind runtime.OutcomeKind) issue.Id {
	switch kind {
	case runtime.KindTimeout:
		return issue.ScanTimeoutId
	case runtime.KindStartFailure:
		return issue.StartFailureId
	default:
		return 0
	}
}

// RenderResultFailure creates a styled failure card for a result that did
// not complete on its own.
func RenderResultFailure(res *runtime.Result, timeout string) string {
	var sb strings.Builder

	sb.WriteString(ErrorStyle.Render("✗ " + failureTitle(res.Kind)))
	sb.WriteString("\n\n")
	sb.WriteString(renderLabelStyle.Render("Command:"))
	sb.WriteString(" ")
	sb.WriteString(CmdStyle.Render(strings.Join(res.Argv, " ")))
	sb.WriteString("\n")
	sb.WriteString(renderLabelStyle.Render("Reason:"))
	sb.WriteString(" ")
	sb.WriteString(renderValueStyle.Render(res.Note))
	if res.Kind == runtime.KindTimeout {
		sb.WriteString("\n")
		sb.WriteString(renderLabelStyle.Render("Limit:"))
		sb.WriteString(" ")
		sb.WriteString(renderValueStyle.Render(timeout))
		sb.WriteString("\n\n")
		sb.WriteString(renderHintStyle.Render("Raise NMAPW_SCAN_TIMEOUT or narrow the target range."))
	}
	return sb.String()
}

// RenderActionable creates a styled message for an actionable error.
func RenderActionable(title string, err error, verbose bool) string {
	var sb strings.Builder
	sb.WriteString(ErrorStyle.Render("✗ " + title))
	sb.WriteString("\n\n")
	sb.WriteString(formatErrorForDisplay(err, verbose))
	return sb.String()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
