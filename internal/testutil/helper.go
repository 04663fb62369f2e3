// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

const (
	// BehaviorArgv prints the received argv (after the helper marker) as a
	// JSON array on stdout and exits 0.
	BehaviorArgv Behavior = "argv"
	// BehaviorExit writes Stdout and Stderr, then exits with ExitCode.
	BehaviorExit Behavior = "exit"
	// BehaviorSleep writes Stdout, then sleeps for Sleep before exiting 0.
	BehaviorSleep Behavior = "sleep"
	// BehaviorSpawn starts a sleeping grandchild, prints "grandchild=<pid>"
	// and then sleeps like BehaviorSleep.
	BehaviorSpawn Behavior = "spawn"
	// BehaviorSignal writes Stdout and Stderr, then kills itself with
	// SIGKILL, as an out-of-memory killer or a crash would.
	BehaviorSignal Behavior = "signal"

	envBehavior = "NMAPW_TEST_HELPER"
	envExitCode = "NMAPW_TEST_EXIT_CODE"
	envStdout   = "NMAPW_TEST_STDOUT"
	envStderr   = "NMAPW_TEST_STDERR"
	envSleep    = "NMAPW_TEST_SLEEP"

	// argvMarker separates the test binary's own arguments from the fake argv.
	argvMarker = "--"
)

type (
	// Behavior selects what the fake child does.
	Behavior string

	// Helper describes one fake child process.
	Helper struct {
		Behavior Behavior
		ExitCode int
		Stdout   string
		Stderr   string
		Sleep    time.Duration
	}
)

// Command builds an *exec.Cmd that re-executes the test binary as the fake
// child. name and args become the fake argv, so the signature matches
// runtime.ExecCommandFunc.
func (h Helper) Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmdArgs := append([]string{argvMarker, name}, args...)
	//nolint:gosec // re-executes the current test binary
	cmd := exec.CommandContext(ctx, os.Args[0], cmdArgs...)
	cmd.Env = append(os.Environ(), h.env()...)
	return cmd
}

func (h Helper) env() []string {
	return []string{
		envBehavior + "=" + string(h.Behavior),
		envExitCode + "=" + strconv.Itoa(h.ExitCode),
		envStdout + "=" + h.Stdout,
		envStderr + "=" + h.Stderr,
		envSleep + "=" + h.Sleep.String(),
	}
}

// MaybeRunHelper turns the process into the fake child when it was started
// by Helper.Command. It must be called first thing in TestMain; it never
// returns in helper mode.
func MaybeRunHelper() {
	behavior := Behavior(os.Getenv(envBehavior))
	if behavior == "" {
		return
	}
	os.Exit(runHelper(behavior, fakeArgv(os.Args)))
}

func fakeArgv(args []string) []string {
	for i, arg := range args {
		if arg == argvMarker {
			return args[i+1:]
		}
	}
	return nil
}

func runHelper(behavior Behavior, argv []string) int {
	switch behavior {
	case BehaviorArgv:
		if err := json.NewEncoder(os.Stdout).Encode(argv); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		return 0
	case BehaviorExit:
		writeStreams()
		code, _ := strconv.Atoi(os.Getenv(envExitCode))
		return code
	case BehaviorSleep:
		writeStreams()
		sleep()
		return 0
	case BehaviorSpawn:
		child := exec.Command(os.Args[0], argvMarker, "grandchild")
		child.Env = append(os.Environ(), envBehavior+"="+string(BehaviorSleep), envStdout+"=", envStderr+"=")
		if err := child.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		fmt.Printf("grandchild=%d\n", child.Process.Pid)
		sleep()
		return 0
	case BehaviorSignal:
		writeStreams()
		self, err := os.FindProcess(os.Getpid())
		if err == nil {
			err = self.Kill()
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		sleep()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown helper behavior %q\n", behavior)
		return 2
	}
}

func writeStreams() {
	if s := os.Getenv(envStdout); s != "" {
		fmt.Fprint(os.Stdout, s)
	}
	if s := os.Getenv(envStderr); s != "" {
		fmt.Fprint(os.Stderr, s)
	}
}

func sleep() {
	d, err := time.ParseDuration(os.Getenv(envSleep))
	if err != nil {
		d = time.Minute
	}
	time.Sleep(d)
}
