// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// ErrUnsupportedExpansion is returned when a joined argument string asks
// for shell expansion, which nmapw never performs.
var ErrUnsupportedExpansion = errors.New("shell expansion is not supported")

// forwardedArgs returns the tokens to pass to the tool.
//
// A lone argument containing whitespace is a pre-joined command line (as
// produced by callers that hand over a single string) and is split with
// POSIX quoting rules. Any other argument list is forwarded verbatim.
func forwardedArgs(args []string) ([]string, error) {
	if len(args) != 1 || !strings.ContainsFunc(args[0], unicode.IsSpace) {
		return args, nil
	}
	return splitJoined(args[0])
}

// splitJoined splits s into words honoring single quotes, double quotes
// and backslashes. Parameter, command, arithmetic, process, brace and
// tilde expansions are rejected instead of evaluated.
func splitJoined(s string) ([]string, error) {
	var words []*syntax.Word
	err := syntax.NewParser().Words(strings.NewReader(s), func(w *syntax.Word) bool {
		words = append(words, w)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("parse arguments %q: %w", s, err)
	}

	for _, w := range words {
		if err := checkLiteral(w); err != nil {
			return nil, err
		}
	}

	// Empty environment and no ReadDir: nothing can be expanded or globbed.
	fields, err := expand.Fields(&expand.Config{Env: expand.ListEnviron()}, words...)
	if err != nil {
		return nil, fmt.Errorf("split arguments %q: %w", s, err)
	}
	return fields, nil
}

// checkLiteral rejects any word part that would need the shell to evaluate it.
func checkLiteral(w *syntax.Word) error {
	if lit, ok := firstLit(w); ok && strings.HasPrefix(lit, "~") {
		return fmt.Errorf("%w: tilde in %q", ErrUnsupportedExpansion, lit)
	}

	// expand.Fields splits unquoted braces, so "{80,443}" would turn into
	// two fields. SplitBraces rewrites the parts it is given; use a copy.
	braced := &syntax.Word{Parts: slices.Clone(w.Parts)}
	if syntax.SplitBraces(braced) {
		return fmt.Errorf("%w: brace expansion in %q", ErrUnsupportedExpansion, wordText(w))
	}

	var found syntax.Node
	syntax.Walk(w, func(node syntax.Node) bool {
		switch node.(type) {
		case *syntax.ParamExp, *syntax.CmdSubst, *syntax.ArithmExp, *syntax.ProcSubst, *syntax.ExtGlob:
			found = node
			return false
		}
		return found == nil
	})
	if found == nil {
		return nil
	}

	pos := found.Pos()
	return fmt.Errorf("%w: %s at column %d", ErrUnsupportedExpansion, nodeKind(found), pos.Col())
}

// wordText prints w back as shell source for error messages.
func wordText(w *syntax.Word) string {
	var sb strings.Builder
	if err := syntax.NewPrinter().Print(&sb, w); err != nil {
		return w.Lit()
	}
	return sb.String()
}

func firstLit(w *syntax.Word) (string, bool) {
	if len(w.Parts) == 0 {
		return "", false
	}
	lit, ok := w.Parts[0].(*syntax.Lit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

func nodeKind(node syntax.Node) string {
	switch node.(type) {
	case *syntax.ParamExp:
		return "parameter expansion"
	case *syntax.CmdSubst:
		return "command substitution"
	case *syntax.ArithmExp:
		return "arithmetic expansion"
	case *syntax.ProcSubst:
		return "process substitution"
	default:
		return "extended glob"
	}
}
