package rules

import (
	"fmt"
)

// RuleShapeError reports a rule that is missing required fields. The rule is not loaded.
type RuleShapeError struct {
	Source string
	RuleID string
	Reason string
}

func (e *RuleShapeError) Error() string {
	id := e.RuleID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("%s: rule %s: %s", e.Source, id, e.Reason)
}

// UnsupportedNodeKindError reports a pattern whose node type is outside the
// supported set. The rule is loaded but the pattern never matches.
type UnsupportedNodeKindError struct {
	Source   string
	RuleID   string
	NodeType string
}

func (e *UnsupportedNodeKindError) Error() string {
	return fmt.Sprintf("%s: rule %s: unsupported node kind %q", e.Source, e.RuleID, e.NodeType)
}

// DuplicateRuleIDError reports a rule id declared more than once. Every copy is kept and applied.
type DuplicateRuleIDError struct {
	RuleID  string
	Sources []string
}

func (e *DuplicateRuleIDError) Error() string {
	return fmt.Sprintf("rule id %q is declared %d times (%v)", e.RuleID, len(e.Sources), e.Sources)
}

// RuleFileError reports a rule file that could not be read or decoded.
type RuleFileError struct {
	Source string
	Err    error
}

func (e *RuleFileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *RuleFileError) Unwrap() error {
	return e.Err
}
