// SPDX-License-Identifier: MPL-2.0

// Package resolver decides how nmap is invoked on the current host.
//
// Resolution evaluates an ordered list of strategies for the detected
// platform profile. On Unix only the native strategy exists: the tool on
// the search path. On Windows the WSL bridge is tried first (the bridge
// launcher on the search path and a bounded "which" probe inside the
// distribution), then a native Windows build. The first strategy that
// succeeds yields the invocation Prefix; when none does, Resolve returns a
// *NotFoundError listing every attempt.
//
// Nothing is cached: every call re-inspects the environment.
package resolver
