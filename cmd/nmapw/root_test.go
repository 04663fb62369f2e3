// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestRootCommand_PassesFlagsThrough(t *testing.T) {
	t.Parallel()

	code := -1
	var got []string
	root := newRootCommand(newApp(nil, nil), &code)
	root.RunE = func(_ *cobra.Command, args []string) error {
		got = args
		return nil
	}
	root.SetArgs([]string{"-h", "--version", "-sV", "--config", "x"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := []string{"-h", "--version", "-sV", "--config", "x"}
	if len(got) != len(want) {
		t.Fatalf("args = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRootCommand_LongDescribesSplitting(t *testing.T) {
	t.Parallel()

	code := 0
	root := newRootCommand(newApp(nil, nil), &code)
	for _, want := range []string{"single argument that contains spaces", "'http.useragent=Foo Bar'"} {
		if !strings.Contains(root.Long, want) {
			t.Errorf("Long does not mention %q", want)
		}
	}
}
