// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fake child processes for executor and resolver
// tests.
//
// A test package opts in by calling MaybeRunHelper from TestMain. Helper
// commands then re-execute the test binary, which behaves like a scanner:
// it echoes its argv, exits with a chosen code, writes chosen streams, or
// sleeps (optionally with a grandchild) until it is killed.
package testutil
