// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nmapw/nmapw/internal/config"
	"github.com/nmapw/nmapw/internal/issue"
	"github.com/nmapw/nmapw/internal/resolver"
	"github.com/nmapw/nmapw/internal/runtime"
	"github.com/nmapw/nmapw/pkg/platform"
)

// app wires configuration, resolution and execution for one invocation.
// The option slices let tests inject fake lookups and children.
type app struct {
	stdout       io.Writer
	stderr       io.Writer
	configOpts   config.LoadOptions
	resolverOpts []resolver.Option
	executorOpts []runtime.Option

	// logger is replaced once the config is known.
	logger *log.Logger
	// verbose shows full error chains.
	verbose bool
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		logger: newLogger(stderr, "warn"),
	}
}

// execute runs one invocation, renders every failure itself and returns
// the process exit code.
func (a *app) execute(ctx context.Context, usage string, args []string) int {
	err := a.run(ctx, usage, args)

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(a.stderr, a.logger, svcErr)
	}
	return exitCodeFor(err)
}

func (a *app) run(ctx context.Context, usage string, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return &ExitError{Code: usageExitCode}
	}

	toolArgs, err := forwardedArgs(args)
	if err != nil {
		ae := issue.NewErrorContext().
			WithOperation("parse arguments").
			WithSuggestion("Pass each nmap argument separately instead of one joined string").
			WithSuggestion("Quote values with single quotes; nmapw never expands $VAR or $(...)").
			WithIssue(issue.InvalidArgumentsId).
			Wrap(err).
			Build()
		return newServiceError(&ExitError{Code: usageExitCode, Err: ae}, issue.InvalidArgumentsId, RenderActionable("Invalid arguments", ae, a.verbose))
	}

	cfg, cfgPath, err := config.Load(ctx, a.configOpts)
	if err != nil {
		return newServiceError(&ExitError{Code: wrapperFailureExitCode, Err: err}, issue.ConfigLoadFailedId,
			RenderActionable("Configuration error", err, a.verbose))
	}
	a.verbose = cfg.UI.Verbose
	a.logger = newLogger(a.stderr, cfg.Log.Level)
	a.logger.Debug("configuration loaded", "version", getVersionString(), "path", cfgPath,
		"tool", cfg.Tool, "timeout", cfg.ScanTimeout, "output", cfg.Output)

	r := resolver.New(append([]resolver.Option{
		resolver.WithTool(cfg.Tool),
		resolver.WithBridge(platform.Bridge{Command: cfg.Bridge.Command, Distribution: cfg.Bridge.Distribution}),
		resolver.WithProbeTimeout(cfg.Bridge.ProbeTimeout),
		resolver.WithLogger(a.logger),
	}, a.resolverOpts...)...)

	prefix, err := r.Resolve(ctx)
	if err != nil {
		var notFound *resolver.NotFoundError
		if errors.As(err, &notFound) {
			return a.reportNotFound(cfg, notFound)
		}
		// Only context cancellation and an invalid profile end up here.
		return newServiceError(&ExitError{Code: wrapperFailureExitCode, Err: err}, 0,
			RenderActionable("Tool resolution aborted", err, a.verbose))
	}

	e := runtime.NewExecutor(append([]runtime.Option{
		runtime.WithTimeout(cfg.ScanTimeout),
		runtime.WithLogger(a.logger),
	}, a.executorOpts...)...)
	res := e.Run(ctx, prefix.Tokens(), toolArgs)

	return a.reportResult(cfg, e, prefix.Strategy(), res)
}

func (a *app) reportNotFound(cfg *config.Config, notFound *resolver.NotFoundError) error {
	ae := notFound.Actionable()
	exitErr := &ExitError{Code: wrapperFailureExitCode, Err: ae}

	if cfg.Output.IsStructured() {
		res := runtime.NewNotFoundResult(uuid.NewString(), notFound)
		r := newReport(res, "")
		r.Suggestions = ae.Suggestions
		if err := writeReport(a.stdout, cfg.Output, r); err != nil {
			return newServiceError(exitErr, 0, ErrorStyle.Render("✗ "+err.Error()))
		}
		return exitErr
	}

	return newServiceError(exitErr, ae.IssueID, RenderActionable(cfg.Tool+" not found", ae, a.verbose))
}

func (a *app) reportResult(cfg *config.Config, e *runtime.Executor, strategy resolver.Strategy, res *runtime.Result) error {
	if cfg.Output.IsStructured() {
		if err := writeReport(a.stdout, cfg.Output, newReport(res, strategy.String())); err != nil {
			return newServiceError(&ExitError{Code: wrapperFailureExitCode, Err: err}, 0, ErrorStyle.Render("✗ "+err.Error()))
		}
		return resultExitError(res)
	}

	writeStreams(a.stdout, a.stderr, res)
	if res.Kind == runtime.KindCompleted {
		exitErr := resultExitError(res)
		// A completed run only carries a note when a signal ended it.
		if exitErr != nil && res.Note != "" {
			return newServiceError(exitErr, 0, ErrorStyle.Render("✗ "+cfg.Tool+" "+res.Note))
		}
		return exitErr
	}
	return newServiceError(resultExitError(res), failureIssue(res.Kind), RenderResultFailure(res, e.Timeout().String()))
}

// resultExitError maps a Result to nil or the matching *ExitError.
func resultExitError(res *runtime.Result) error {
	if res.Success {
		return nil
	}
	exitErr := &ExitError{Code: res.ExitCode.ProcessExitCode(), Err: res.Err}
	if res.Kind != runtime.KindCompleted {
		exitErr.Code = wrapperFailureExitCode
	}
	return exitErr
}
