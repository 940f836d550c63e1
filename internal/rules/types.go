package rules

import (
	"fmt"
	"strings"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/syntax"
)

// Severity is the impact level attached to a rule and copied onto its findings.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Severities lists every severity from lowest to highest.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// ParseSeverity accepts a severity name in any letter case.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if sev.Rank() == 0 {
		return "", fmt.Errorf("unknown severity %q: must be one of LOW, MEDIUM, HIGH, CRITICAL", s)
	}
	return sev, nil
}

// Rank orders severities from 1 (LOW) to 4 (CRITICAL). Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// MatchPattern is one node-kind plus predicate combination of a rule.
type MatchPattern struct {
	// NodeType is the node type as written in the rule file.
	NodeType string
	// Kind is NodeType resolved against the supported set. KindUnknown never matches.
	Kind syntax.Kind
	// FuncName, when set, requires a call whose callee is this plain identifier.
	FuncName string
}

// Rule describes one vulnerability pattern. Rules are immutable once loaded.
type Rule struct {
	ID          string
	Description string
	Severity    Severity
	// Patterns are alternatives: the rule matches a node when any of them does.
	Patterns []MatchPattern
	// Source is the rule file the rule was loaded from.
	Source string
}

func (r Rule) clone() Rule {
	c := r
	c.Patterns = append([]MatchPattern(nil), r.Patterns...)
	return c
}

// Set is the read-only rule table shared by all scans. It is safe for
// concurrent use because it never changes after NewSet returns.
type Set struct {
	rules []Rule
}

// NewSet copies rules into a new Set, preserving their order.
func NewSet(rules []Rule) *Set {
	s := &Set{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		s.rules = append(s.rules, r.clone())
	}
	return s
}

// Rules returns a copy of the rules in load order.
func (s *Set) Rules() []Rule {
	if s == nil {
		return nil
	}
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r.clone())
	}
	return out
}

// Len returns the number of rules in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}
