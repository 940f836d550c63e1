package findings

import (
	"fmt"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules"
)

// Finding is one rule match at a specific file and line.
type Finding struct {
	Filename string         `json:"filename" yaml:"filename"`
	Line     int            `json:"line" yaml:"line"`
	RuleID   string         `json:"rule_id" yaml:"rule_id"`
	Message  string         `json:"message" yaml:"message"`
	Severity rules.Severity `json:"severity" yaml:"severity"`
}

// String renders the finding as a single report line.
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s:%d - %s (rule: %s)", f.Severity, f.Filename, f.Line, f.Message, f.RuleID)
}

// FilterBySeverity returns the findings whose severity equals severity, in their original order.
func FilterBySeverity(list []Finding, severity rules.Severity) []Finding {
	filtered := make([]Finding, 0, len(list))
	for _, f := range list {
		if f.Severity == severity {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// Summarize counts findings per severity. Every known severity is present in the result.
func Summarize(list []Finding) map[rules.Severity]int {
	summary := make(map[rules.Severity]int, len(rules.Severities))
	for _, s := range rules.Severities {
		summary[s] = 0
	}
	for _, f := range list {
		summary[f.Severity]++
	}
	return summary
}
