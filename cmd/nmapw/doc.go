// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the nmapw command line.
//
// The root command has no flags or subcommands of its own: every argument
// is forwarded to nmap untouched. Wrapper settings come from NMAPW_*
// environment variables and the optional CUE config file.
package cmd
