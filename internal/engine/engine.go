package engine

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/findings"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/syntax"
)

// Provider parses one source file into a syntax tree.
type Provider interface {
	Parse(ctx context.Context, source []byte) (*syntax.Tree, error)
}

// Engine matches a fixed rule set against source files.
// An Engine holds no per-scan state and may be shared by concurrent scans.
type Engine struct {
	rules    []rules.Rule
	provider Provider
	logger   hclog.Logger
}

// New creates an Engine over a snapshot of set.
func New(set *rules.Set, provider Provider, logger hclog.Logger) *Engine {
	return &Engine{
		rules:    set.Rules(),
		provider: provider,
		logger:   logger,
	}
}

// RuleCount returns the number of rules the engine applies.
func (e *Engine) RuleCount() int {
	return len(e.rules)
}

// Scan parses source once, walks it once and returns one finding per matching
// (node, rule) pair, in node visit order and rule order within a node.
// A source that does not parse yields a *ParseError.
func (e *Engine) Scan(ctx context.Context, source []byte, filename string) ([]findings.Finding, error) {
	tree, err := e.provider.Parse(ctx, source)
	if err != nil {
		return nil, newParseError(filename, err)
	}
	defer tree.Close()

	result := []findings.Finding{}
	nodes := 0
	w := tree.Walk()
	for {
		node, ok := w.Next()
		if !ok {
			break
		}
		nodes++
		for _, rule := range e.rules {
			if Matches(node, rule) {
				result = append(result, newFinding(filename, node.Line(), rule))
			}
		}
	}

	e.logger.Trace("file scanned", "file", filename, "nodes", nodes, "findings", len(result))
	return result, nil
}

// newFinding copies the rule's attribution onto a finding at line.
func newFinding(filename string, line int, rule rules.Rule) findings.Finding {
	return findings.Finding{
		Filename: filename,
		Line:     line,
		RuleID:   rule.ID,
		Message:  rule.Description,
		Severity: rule.Severity,
	}
}
