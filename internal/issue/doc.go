// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation suggestions. The issue catalog holds longer Markdown guidance
// for the failure kinds a user can fix on their own (missing nmap, broken
// WSL bridge, timeouts), rendered for the terminal with glamour.
package issue
