// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nmapw/nmapw/internal/runtime"
	"github.com/nmapw/nmapw/pkg/platform"
)

const (
	// DefaultTool is the executable name resolved when none is configured.
	DefaultTool = "nmap"
	// MaxProbeTimeout is the hard upper bound of the bridge existence check.
	MaxProbeTimeout = 5 * time.Second

	// whichNotFoundCode is the exit status of which(1) for a missing program.
	whichNotFoundCode = 1
)

type (
	// LookPathFunc searches the host path for an executable.
	LookPathFunc func(file string) (string, error)

	// ProbeFunc runs argv (a bridge existence check) and reports nil when the
	// tool is reachable. It returns an error matching ErrToolMissingInBridge,
	// ErrProbeTimeout or ErrProbeFailed otherwise.
	ProbeFunc func(ctx context.Context, argv []string) error

	// Option configures a Resolver.
	Option func(*Resolver)

	// Resolver locates the tool for one platform profile.
	Resolver struct {
		profile      platform.Profile
		tool         string
		bridge       platform.Bridge
		probeTimeout time.Duration
		lookPath     LookPathFunc
		probe        ProbeFunc
		logger       *log.Logger
	}

	// candidate is one strategy: build returns a prefix or the failed attempt.
	candidate struct {
		strategy Strategy
		build    func(ctx context.Context) (Prefix, *Attempt, error)
	}
)

// WithProfile overrides the detected platform profile.
func WithProfile(p platform.Profile) Option {
	return func(r *Resolver) { r.profile = p }
}

// WithTool sets the executable name to resolve.
func WithTool(tool string) Option {
	return func(r *Resolver) {
		if tool != "" {
			r.tool = tool
		}
	}
}

// WithBridge sets the bridge launcher and distribution. Empty fields keep
// their defaults except Distribution, where empty targets the default WSL
// distribution.
func WithBridge(b platform.Bridge) Option {
	return func(r *Resolver) {
		if b.Command != "" {
			r.bridge.Command = b.Command
		}
		r.bridge.Distribution = b.Distribution
	}
}

// WithProbeTimeout sets the bridge probe bound, clamped to MaxProbeTimeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.probeTimeout = min(d, MaxProbeTimeout)
		}
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn LookPathFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.lookPath = fn
		}
	}
}

// WithProbe replaces the default bridge probe.
func WithProbe(fn ProbeFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.probe = fn
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver for the current host.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		profile:      platform.DetectProfile(),
		tool:         DefaultTool,
		bridge:       platform.DefaultBridge(),
		probeTimeout: MaxProbeTimeout,
		lookPath:     exec.LookPath,
		logger:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.probe == nil {
		r.probe = ExecutorProbe(runtime.NewExecutor(
			runtime.WithTimeout(r.probeTimeout),
			runtime.WithLogger(r.logger),
		))
	}
	return r
}

// Resolve evaluates the candidate strategies in order and returns the
// first prefix that works. It fails with a *NotFoundError when none does,
// or with the context error when ctx ends during a probe.
func (r *Resolver) Resolve(ctx context.Context) (Prefix, error) {
	if err := r.profile.Validate(); err != nil {
		return Prefix{}, err
	}

	var attempts []Attempt
	for _, c := range r.candidates() {
		if err := ctx.Err(); err != nil {
			return Prefix{}, err
		}
		prefix, attempt, err := c.build(ctx)
		if err != nil {
			return Prefix{}, err
		}
		if attempt == nil {
			r.logger.Debug("resolved tool", "strategy", c.strategy, "prefix", prefix.String())
			return prefix, nil
		}
		r.logger.Debug("strategy failed", "strategy", c.strategy, "reason", attempt.Reason, "error", attempt.Err)
		attempts = append(attempts, *attempt)
	}

	return Prefix{}, &NotFoundError{Profile: r.profile, Tool: r.tool, Attempts: attempts}
}

func (r *Resolver) candidates() []candidate {
	native := candidate{strategy: StrategyNative, build: r.native}
	if _, ok := platform.BridgeFor(r.profile); ok {
		return []candidate{{strategy: StrategyBridge, build: r.viaBridge}, native}
	}
	return []candidate{native}
}

func (r *Resolver) native(context.Context) (Prefix, *Attempt, error) {
	if _, err := r.lookPath(r.tool); err != nil {
		return Prefix{}, &Attempt{Strategy: StrategyNative, Executable: r.tool, Reason: ReasonNotOnPath, Err: err}, nil
	}
	// The bare name keeps the child's argv[0] identical to what the user
	// would type; the OS repeats the same lookup at start.
	return newPrefix(StrategyNative, []string{r.tool}), nil, nil
}

func (r *Resolver) viaBridge(ctx context.Context) (Prefix, *Attempt, error) {
	if _, err := r.lookPath(r.bridge.Command); err != nil {
		return Prefix{}, &Attempt{Strategy: StrategyBridge, Executable: r.bridge.Command, Reason: ReasonNotOnPath, Err: err}, nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	err := r.probe(probeCtx, r.bridge.LocateArgv(r.tool))
	if err == nil {
		return newPrefix(StrategyBridge, r.bridge.Prefix(r.tool)), nil, nil
	}
	if ctx.Err() != nil {
		return Prefix{}, nil, ctx.Err()
	}

	attempt := &Attempt{Strategy: StrategyBridge, Executable: r.bridge.Command, Err: err}
	switch {
	case errors.Is(err, ErrToolMissingInBridge):
		attempt.Reason = ReasonToolMissingInBridge
	case errors.Is(err, ErrProbeTimeout), errors.Is(err, context.DeadlineExceeded):
		attempt.Reason = ReasonProbeTimeout
	default:
		attempt.Reason = ReasonProbeError
	}
	return Prefix{}, attempt, nil
}

// ExecutorProbe returns a ProbeFunc that runs the check through e, so the
// probe gets the same process-group kill as a scan.
func ExecutorProbe(e *runtime.Executor) ProbeFunc {
	return func(ctx context.Context, argv []string) error {
		res := e.Run(ctx, argv, nil)
		switch res.Kind {
		case runtime.KindCompleted:
			switch {
			case res.Success:
				return nil
			case res.ExitCode == whichNotFoundCode:
				return ErrToolMissingInBridge
			default:
				return fmt.Errorf("%w: exit code %d: %s", ErrProbeFailed, res.ExitCode, res.CombinedOutput)
			}
		case runtime.KindTimeout:
			return ErrProbeTimeout
		case runtime.KindInterrupted:
			if errors.Is(res.Err, context.DeadlineExceeded) {
				return ErrProbeTimeout
			}
			return res.Err
		default:
			return fmt.Errorf("%w: %s", ErrProbeFailed, res.Note)
		}
	}
}
