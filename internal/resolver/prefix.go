// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"slices"
	"strings"
)

const (
	// StrategyNative runs the tool found on the host search path.
	StrategyNative Strategy = "native"
	// StrategyBridge runs the tool inside the WSL distribution.
	StrategyBridge Strategy = "bridge"
)

type (
	// Strategy names the way a Prefix was obtained.
	Strategy string

	// Prefix is the ordered, immutable token sequence placed before the
	// caller's arguments, e.g. ["nmap"] or ["wsl", "-d", "kali-linux", "--exec", "nmap"].
	Prefix struct {
		tokens   []string
		strategy Strategy
	}
)

// String returns the string representation of the Strategy.
func (s Strategy) String() string { return string(s) }

func newPrefix(strategy Strategy, tokens []string) Prefix {
	return Prefix{tokens: slices.Clone(tokens), strategy: strategy}
}

// Tokens returns a copy of the prefix tokens.
func (p Prefix) Tokens() []string { return slices.Clone(p.tokens) }

// Strategy returns the strategy that produced the prefix.
func (p Prefix) Strategy() Strategy { return p.strategy }

// IsZero reports whether p holds no tokens.
func (p Prefix) IsZero() bool { return len(p.tokens) == 0 }

// Equal reports whether both prefixes hold the same tokens from the same strategy.
func (p Prefix) Equal(other Prefix) bool {
	return p.strategy == other.strategy && slices.Equal(p.tokens, other.tokens)
}

// String joins the tokens with spaces for display. It is not a shell
// command line and must never be executed as one.
func (p Prefix) String() string { return strings.Join(p.tokens, " ") }
