package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/findings"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/files"
)

// Format is an output encoding for findings.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatSARIF Format = "sarif"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatSARIF}

// Metadata describes the scan that produced a report. Empty fields are omitted.
type Metadata struct {
	ToolVersion   string
	RepositoryURL string
	Branch        string
	Commit        string
}

// ParseFormat accepts a format name in any letter case; "yml" is an alias of yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatSARIF:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q: must be one of text, json, yaml, sarif", s)
}

// DetermineFormat picks the output format. An explicit format wins; otherwise
// the output file extension decides and anything unrecognised is text.
func DetermineFormat(explicit, outputPath string) (Format, error) {
	if explicit != "" {
		return ParseFormat(explicit)
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".sarif":
		return FormatSARIF, nil
	}
	return FormatText, nil
}

// Extension returns the file extension used for a default report file name.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Write encodes list to w in the given format.
func Write(w io.Writer, format Format, list []findings.Finding, meta Metadata) error {
	if list == nil {
		list = []findings.Finding{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		return nil
	case FormatYAML:
		data, err := yaml.Marshal(list)
		if err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatSARIF:
		return writeSARIF(w, list, meta)
	case FormatText, "":
		for _, f := range list {
			if _, err := fmt.Fprintln(w, f.String()); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteFile writes the report to path, creating missing parent folders.
func WriteFile(path string, format Format, list []findings.Finding, meta Metadata) error {
	var buf bytes.Buffer
	if err := Write(&buf, format, list, meta); err != nil {
		return err
	}
	if err := files.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report to %q: %w", path, err)
	}
	return nil
}

// Summary renders per-severity counts from the most to the least severe,
// e.g. "Critical: 0, High: 2, Medium: 1, Low: 0".
func Summary(counts map[rules.Severity]int) string {
	caser := cases.Title(language.Und)
	parts := make([]string, 0, len(rules.Severities))
	for i := len(rules.Severities) - 1; i >= 0; i-- {
		s := rules.Severities[i]
		parts = append(parts, fmt.Sprintf("%s: %d", caser.String(strings.ToLower(string(s))), counts[s]))
	}
	return strings.Join(parts, ", ")
}
