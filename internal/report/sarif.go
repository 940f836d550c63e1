package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/findings"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules"
)

const (
	toolName = "Aegiscan"
	toolURI  = "https://github.com/BaranTeyin1/Aegiscan-cli"
)

// sarifLevel maps a severity onto a SARIF result level.
func sarifLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityCritical, rules.SeverityHigh:
		return "error"
	case rules.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// writeSARIF emits one run with one rule descriptor per distinct rule id, in
// order of first appearance, and one result per finding.
func writeSARIF(w io.Writer, list []findings.Finding, meta Metadata) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	if meta.ToolVersion != "" {
		version := meta.ToolVersion
		run.Tool.Driver.Version = &version
	}
	if meta.RepositoryURL != "" {
		vcs := &sarif.VersionControlDetails{RepositoryURI: stringPtr(meta.RepositoryURL)}
		if meta.Commit != "" {
			vcs.RevisionID = stringPtr(meta.Commit)
		}
		if meta.Branch != "" {
			vcs.Branch = stringPtr(meta.Branch)
		}
		run.VersionControlProvenance = append(run.VersionControlProvenance, vcs)
	}

	seen := make(map[string]bool)
	for _, f := range list {
		if !seen[f.RuleID] {
			seen[f.RuleID] = true
			run.AddRule(f.RuleID).
				WithDescription(f.Message).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: sarifLevel(f.Severity),
				}).
				WithProperties(sarif.Properties{"severity": string(f.Severity)})
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(filepath.ToSlash(f.Filename))).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line)),
		)

		result := sarif.NewRuleResult(f.RuleID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(sarifLevel(f.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	report.AddRun(run)

	if err := report.PrettyWrite(w); err != nil {
		return fmt.Errorf("failed to encode SARIF report: %w", err)
	}
	return nil
}

func stringPtr(s string) *string {
	return &s
}
