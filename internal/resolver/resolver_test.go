// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nmapw/nmapw/internal/issue"
	"github.com/nmapw/nmapw/internal/runtime"
	"github.com/nmapw/nmapw/internal/testutil"
	"github.com/nmapw/nmapw/pkg/platform"
)

func TestMain(m *testing.M) {
	testutil.MaybeRunHelper()
	os.Exit(m.Run())
}

// lookPathIn returns a LookPathFunc that finds only the given executables.
func lookPathIn(found ...string) LookPathFunc {
	return func(file string) (string, error) {
		if slices.Contains(found, file) {
			return "/usr/bin/" + file, nil
		}
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
}

func probeReturning(err error) ProbeFunc {
	return func(context.Context, []string) error { return err }
}

func TestResolve_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		profile      platform.Profile
		onPath       []string
		probeErr     error
		want         []string
		wantStrategy Strategy
		wantReasons  []Reason
		wantIssue    issue.Id
	}{
		{
			name:         "unix native",
			profile:      platform.NativeUnix,
			onPath:       []string{"nmap"},
			want:         []string{"nmap"},
			wantStrategy: StrategyNative,
		},
		{
			name:         "unix ignores bridge",
			profile:      platform.NativeUnix,
			onPath:       []string{"nmap", "wsl"},
			want:         []string{"nmap"},
			wantStrategy: StrategyNative,
		},
		{
			name:        "unix nothing",
			profile:     platform.NativeUnix,
			wantReasons: []Reason{ReasonNotOnPath},
			wantIssue:   issue.ToolNotFoundId,
		},
		{
			name:         "windows bridge",
			profile:      platform.NativeWindows,
			onPath:       []string{"wsl", "nmap"},
			want:         []string{"wsl", "-d", "kali-linux", "--exec", "nmap"},
			wantStrategy: StrategyBridge,
		},
		{
			name:         "windows native fallback",
			profile:      platform.NativeWindows,
			onPath:       []string{"nmap"},
			want:         []string{"nmap"},
			wantStrategy: StrategyNative,
		},
		{
			name:         "windows bridge without tool falls back",
			profile:      platform.NativeWindows,
			onPath:       []string{"wsl", "nmap"},
			probeErr:     ErrToolMissingInBridge,
			want:         []string{"nmap"},
			wantStrategy: StrategyNative,
		},
		{
			name:        "windows nothing",
			profile:     platform.NativeWindows,
			wantReasons: []Reason{ReasonNotOnPath, ReasonNotOnPath},
			wantIssue:   issue.ToolNotFoundId,
		},
		{
			name:        "windows tool missing in bridge",
			profile:     platform.NativeWindows,
			onPath:      []string{"wsl"},
			probeErr:    ErrToolMissingInBridge,
			wantReasons: []Reason{ReasonToolMissingInBridge, ReasonNotOnPath},
			wantIssue:   issue.ToolNotFoundId,
		},
		{
			name:        "windows probe timeout",
			profile:     platform.NativeWindows,
			onPath:      []string{"wsl"},
			probeErr:    ErrProbeTimeout,
			wantReasons: []Reason{ReasonProbeTimeout, ReasonNotOnPath},
			wantIssue:   issue.BridgeUnavailableId,
		},
		{
			name:        "windows probe error",
			profile:     platform.NativeWindows,
			onPath:      []string{"wsl"},
			probeErr:    fmt.Errorf("%w: exit code 4294967295", ErrProbeFailed),
			wantReasons: []Reason{ReasonProbeError, ReasonNotOnPath},
			wantIssue:   issue.BridgeUnavailableId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := New(
				WithProfile(tt.profile),
				WithLookPath(lookPathIn(tt.onPath...)),
				WithProbe(probeReturning(tt.probeErr)),
			)
			prefix, err := r.Resolve(context.Background())

			if tt.wantReasons == nil {
				if err != nil {
					t.Fatalf("Resolve() error = %v", err)
				}
				if !slices.Equal(prefix.Tokens(), tt.want) {
					t.Errorf("Tokens() = %q, want %q", prefix.Tokens(), tt.want)
				}
				if prefix.Strategy() != tt.wantStrategy {
					t.Errorf("Strategy() = %s, want %s", prefix.Strategy(), tt.wantStrategy)
				}
				return
			}

			if !errors.Is(err, ErrToolNotFound) {
				t.Fatalf("Resolve() error = %v, want ErrToolNotFound", err)
			}
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("error %T is not *NotFoundError", err)
			}
			reasons := make([]Reason, 0, len(nf.Attempts))
			for _, a := range nf.Attempts {
				reasons = append(reasons, a.Reason)
			}
			if !slices.Equal(reasons, tt.wantReasons) {
				t.Errorf("attempt reasons = %v, want %v", reasons, tt.wantReasons)
			}
			if nf.Profile != tt.profile {
				t.Errorf("Profile = %s, want %s", nf.Profile, tt.profile)
			}
			if got := nf.Actionable().IssueID; got != tt.wantIssue {
				t.Errorf("IssueID = %d, want %d", got, tt.wantIssue)
			}
			if !prefix.IsZero() {
				t.Errorf("prefix = %q, want zero on failure", prefix.Tokens())
			}
		})
	}
}

func TestResolve_ProbeArgvAndPrefixByConfiguration(t *testing.T) {
	t.Parallel()

	var probed []string
	r := New(
		WithProfile(platform.NativeWindows),
		WithTool("nmap7"),
		WithBridge(platform.Bridge{Command: "wsl.exe", Distribution: "Ubuntu"}),
		WithLookPath(lookPathIn("wsl.exe")),
		WithProbe(func(_ context.Context, argv []string) error {
			probed = argv
			return nil
		}),
	)

	prefix, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := []string{"wsl.exe", "-d", "Ubuntu", "--exec", "which", "nmap7"}; !slices.Equal(probed, want) {
		t.Errorf("probe argv = %q, want %q", probed, want)
	}
	if want := []string{"wsl.exe", "-d", "Ubuntu", "--exec", "nmap7"}; !slices.Equal(prefix.Tokens(), want) {
		t.Errorf("Tokens() = %q, want %q", prefix.Tokens(), want)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	var lookups atomic.Int32
	r := New(
		WithProfile(platform.NativeWindows),
		WithLookPath(func(file string) (string, error) {
			lookups.Add(1)
			return lookPathIn("wsl")(file)
		}),
		WithProbe(probeReturning(nil)),
	)

	first, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	second, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("prefixes differ: %q vs %q", first, second)
	}
	if lookups.Load() != 2 {
		t.Errorf("lookups = %d, want 2 (no caching)", lookups.Load())
	}
}

func TestResolve_ProbeIsBounded(t *testing.T) {
	t.Parallel()

	var remaining time.Duration
	r := New(
		WithProfile(platform.NativeWindows),
		WithProbeTimeout(time.Hour),
		WithLookPath(lookPathIn("wsl", "nmap")),
		WithProbe(func(ctx context.Context, _ []string) error {
			deadline, ok := ctx.Deadline()
			if !ok {
				return errors.New("probe context has no deadline")
			}
			remaining = time.Until(deadline)
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	r.probeTimeout = 50 * time.Millisecond

	prefix, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if prefix.Strategy() != StrategyNative {
		t.Errorf("Strategy() = %s, want native fallback after probe timeout", prefix.Strategy())
	}
	if remaining <= 0 || remaining > MaxProbeTimeout {
		t.Errorf("probe deadline %s not within (0, %s]", remaining, MaxProbeTimeout)
	}
}

func TestWithProbeTimeout_Clamped(t *testing.T) {
	t.Parallel()

	if got := New(WithProbeTimeout(time.Minute)).probeTimeout; got != MaxProbeTimeout {
		t.Errorf("probeTimeout = %s, want %s", got, MaxProbeTimeout)
	}
	if got := New(WithProbeTimeout(time.Second)).probeTimeout; got != time.Second {
		t.Errorf("probeTimeout = %s, want 1s", got)
	}
}

func TestResolve_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	r := New(
		WithProfile(platform.NativeWindows),
		WithLookPath(lookPathIn("wsl", "nmap")),
		WithProbe(func(context.Context, []string) error {
			cancel()
			return context.Canceled
		}),
	)

	if _, err := r.Resolve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestResolve_InvalidProfile(t *testing.T) {
	t.Parallel()

	_, err := New(WithProfile("plan9")).Resolve(context.Background())
	if !errors.Is(err, platform.ErrInvalidProfile) {
		t.Errorf("Resolve() error = %v, want ErrInvalidProfile", err)
	}
}

func TestNotFoundError_Actionable(t *testing.T) {
	t.Parallel()

	nf := &NotFoundError{
		Profile: platform.NativeWindows,
		Tool:    "nmap",
		Attempts: []Attempt{
			{Strategy: StrategyBridge, Executable: "wsl", Reason: ReasonToolMissingInBridge, Err: ErrToolMissingInBridge},
			{Strategy: StrategyNative, Executable: "nmap", Reason: ReasonNotOnPath, Err: exec.ErrNotFound},
		},
	}

	if msg := nf.Error(); !strings.Contains(msg, "Windows") || !strings.Contains(msg, "tool-missing-in-bridge") {
		t.Errorf("Error() = %q, want platform and reasons", msg)
	}

	ae := nf.Actionable()
	if !errors.Is(ae, ErrToolNotFound) {
		t.Error("actionable error does not wrap ErrToolNotFound")
	}
	if !strings.Contains(ae.Suggestions[0], "inside the WSL distribution") {
		t.Errorf("first suggestion = %q, want the bridge-specific fix", ae.Suggestions[0])
	}
	joined := strings.Join(ae.Suggestions, "\n")
	for _, want := range []string{"apt install", "dnf install", "pacman -S", "brew install", "winget install"} {
		if !strings.Contains(joined, want) {
			t.Errorf("suggestions missing %q:\n%s", want, joined)
		}
	}
}

func TestPrefix_TokensAreCopies(t *testing.T) {
	t.Parallel()

	p := newPrefix(StrategyNative, []string{"nmap"})
	tokens := p.Tokens()
	tokens[0] = "rm"
	if p.Tokens()[0] != "nmap" {
		t.Error("Tokens() exposes internal storage")
	}
	if p.String() != "nmap" {
		t.Errorf("String() = %q", p.String())
	}
}

func TestExecutorProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		helper  testutil.Helper
		timeout time.Duration
		wantErr error
	}{
		{name: "found", helper: testutil.Helper{Behavior: testutil.BehaviorExit, Stdout: "/usr/bin/nmap\n"}},
		{name: "missing", helper: testutil.Helper{Behavior: testutil.BehaviorExit, ExitCode: 1}, wantErr: ErrToolMissingInBridge},
		{name: "bridge failure", helper: testutil.Helper{Behavior: testutil.BehaviorExit, ExitCode: 255, Stderr: "no distribution"}, wantErr: ErrProbeFailed},
		{name: "hang", helper: testutil.Helper{Behavior: testutil.BehaviorSleep, Sleep: time.Minute}, timeout: time.Second, wantErr: ErrProbeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []runtime.Option{runtime.WithExecCommand(tt.helper.Command), runtime.WithWaitDelay(time.Second)}
			if tt.timeout > 0 {
				opts = append(opts, runtime.WithTimeout(tt.timeout))
			}
			probe := ExecutorProbe(runtime.NewExecutor(opts...))

			err := probe(context.Background(), []string{"wsl", "-d", "kali-linux", "--exec", "which", "nmap"})
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("probe() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("probe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExecutorProbe_StartFailure(t *testing.T) {
	t.Parallel()

	probe := ExecutorProbe(runtime.NewExecutor())
	err := probe(context.Background(), []string{"nmapw-no-such-bridge", "which", "nmap"})
	if !errors.Is(err, ErrProbeFailed) {
		t.Errorf("probe() error = %v, want ErrProbeFailed", err)
	}
}
