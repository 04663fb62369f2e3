// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// usageText is printed when nmapw is called without arguments.
const usageText = `Usage: nmapw <nmap arguments...>
Example: nmapw -sV scanme.nmap.org
`

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand creates the pass-through root command. The resulting exit
// code is stored in *exitCode because fang prints any error RunE returns,
// while nmapw renders its own failures.
func newRootCommand(a *app, exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:   "nmapw <nmap arguments...>",
		Short: "Run nmap natively or through WSL under a hard timeout",
		Long: TitleStyle.Render("nmapw") + SubtitleStyle.Render(" - Run nmap natively or through WSL under a hard timeout") + `

nmapw locates nmap on this host (on Windows, inside the kali-linux WSL
distribution first), runs it with your arguments exactly as given, and
stops it after ten minutes. Every argument, including -h and --version,
is forwarded to nmap.

A single argument that contains spaces is treated as a whole command line
and split like a shell would, without expanding anything. Quote values
that hold spaces inside it, or pass them as separate arguments:
  nmapw "--script-args='http.useragent=Foo Bar' scanme.nmap.org"
  nmapw --script-args "http.useragent=Foo Bar" scanme.nmap.org

` + SubtitleStyle.Render("Settings:") + `
  NMAPW_SCAN_TIMEOUT           maximum scan duration (default 600s)
  NMAPW_OUTPUT                 text, json or toml
  NMAPW_BRIDGE_DISTRIBUTION    WSL distribution (default kali-linux)
  NMAPW_LOG_LEVEL              debug, info, warn, error
  NMAPW_CONFIG                 path to a CUE config file`,
		Example:            "  nmapw -sV scanme.nmap.org\n  nmapw \"-p 22,80 -T4 192.168.1.0/24\"",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*exitCode = a.execute(cmd.Context(), usageText, args)
			return nil
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits with the resulting code.
// This is called by main.main().
func Execute() {
	exitCode := 0
	rootCmd := newRootCommand(newApp(os.Stdout, os.Stderr), &exitCode)

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
		fang.WithoutManpage(),
		fang.WithoutCompletions(),
	); err != nil {
		os.Exit(exitCodeFor(err))
	}
	os.Exit(exitCode)
}
