// SPDX-License-Identifier: MPL-2.0

// Package platform provides host platform detection and the invocation
// prefixes of the compatibility bridges available on each platform.
//
// The detected Profile decides which resolution strategies are attempted
// and in which order: native Unix hosts run the tool directly, while
// Windows hosts first try to route through the WSL bridge.
package platform
