package engine

import (
	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/syntax"
)

// Node is the part of a syntax node the matcher inspects.
type Node interface {
	Kind() syntax.Kind
	CalleeName() (string, bool)
}

// Matches reports whether node satisfies rule. A rule's patterns are
// alternatives, so any matching pattern is enough. A rule without patterns
// matches nothing.
func Matches(node Node, rule rules.Rule) bool {
	for _, p := range rule.Patterns {
		if MatchesPattern(node, p) {
			return true
		}
	}
	return false
}

// MatchesPattern evaluates a single pattern against node.
func MatchesPattern(node Node, p rules.MatchPattern) bool {
	if p.Kind == syntax.KindUnknown || node.Kind() != p.Kind {
		return false
	}
	if p.FuncName == "" {
		return true
	}
	name, ok := node.CalleeName()
	return ok && name == p.FuncName
}
