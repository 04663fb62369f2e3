// SPDX-License-Identifier: MPL-2.0

// Package runtime runs one external command to completion or timeout.
//
// Executor.Run builds the child argv as prefix ++ args with no shell in
// between, captures stdout and stderr separately, and races the child's
// exit against a wall-clock deadline. When the deadline (or the caller's
// context) wins, the child's whole process group is killed so no scan is
// left running. Every call yields exactly one Result, whose Kind tells a
// real exit apart from a timeout, an interrupt or a start failure.
package runtime
