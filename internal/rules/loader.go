package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	yaml "gopkg.in/yaml.v2"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules/builtin"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/syntax"
)

// ruleExtensions are the file extensions read from a rules folder. JSON is a subset of YAML.
var ruleExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ruleDocument is the on-disk shape of one rule.
type ruleDocument struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Severity    string            `yaml:"severity"`
	Matches     []patternDocument `yaml:"matches"`
}

type patternDocument struct {
	NodeType string `yaml:"node_type"`
	FuncName string `yaml:"func_name"`
}

// ruleFile is one YAML document: a single rule, a mapping with a "rules"
// list, or a bare list of rules.
type ruleFile struct {
	Rules []ruleDocument `yaml:"rules"`
	Rule  ruleDocument   `yaml:",inline"`
}

func (f *ruleFile) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []ruleDocument
	if err := unmarshal(&list); err == nil {
		f.Rules = list
		return nil
	}
	type plain ruleFile
	return unmarshal((*plain)(f))
}

func (f ruleFile) documents() []ruleDocument {
	if len(f.Rules) > 0 {
		return f.Rules
	}
	if f.Rule.isEmpty() {
		return nil
	}
	return []ruleDocument{f.Rule}
}

// LoadResult is the outcome of loading a rules folder.
type LoadResult struct {
	Set *Set
	// Diagnostics holds *RuleShapeError, *UnsupportedNodeKindError,
	// *DuplicateRuleIDError and *RuleFileError values in discovery order.
	Diagnostics []error
}

// Err joins all diagnostics, or returns nil when there are none.
func (r *LoadResult) Err() error {
	return errors.Join(r.Diagnostics...)
}

// LoadFolder loads every rule file in the directory at dir.
func LoadFolder(dir string, logger hclog.Logger) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("rules folder %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rules folder %q is not a directory", dir)
	}
	return LoadDir(os.DirFS(dir), ".", logger)
}

// LoadBuiltin loads the rules embedded in the binary.
func LoadBuiltin(logger hclog.Logger) (*LoadResult, error) {
	return LoadDir(builtin.FS, ".", logger)
}

// LoadDir loads every *.yaml, *.yml and *.json file directly inside dir of fsys,
// in file name order. Invalid files and rules become diagnostics and are skipped;
// only an unreadable directory is returned as an error.
func LoadDir(fsys fs.FS, dir string, logger hclog.Logger) (*LoadResult, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules folder %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	result := &LoadResult{}
	var loaded []Rule
	for _, entry := range entries {
		if entry.IsDir() || !ruleExtensions[strings.ToLower(path.Ext(entry.Name()))] {
			continue
		}
		source := path.Join(dir, entry.Name())

		docs, err := readRuleFile(fsys, source)
		if err != nil {
			logger.Warn("skipping unreadable rule file", "file", source, "error", err)
			result.Diagnostics = append(result.Diagnostics, &RuleFileError{Source: source, Err: err})
			continue
		}

		for _, doc := range docs {
			rule, diags := compileRule(doc, source)
			for _, d := range diags {
				logger.Warn("rule diagnostic", "error", d)
			}
			result.Diagnostics = append(result.Diagnostics, diags...)
			if rule != nil {
				loaded = append(loaded, *rule)
			}
		}
	}

	for _, d := range duplicateIDs(loaded) {
		logger.Warn("duplicate rule id, all copies apply", "id", d.RuleID, "sources", d.Sources)
		result.Diagnostics = append(result.Diagnostics, d)
	}

	result.Set = NewSet(loaded)
	logger.Debug("rules loaded", "folder", dir, "rules", result.Set.Len(), "diagnostics", len(result.Diagnostics))
	return result, nil
}

// readRuleFile decodes every YAML document of one rule file into its rule documents.
// A document that fails to decode rejects the whole file.
func readRuleFile(fsys fs.FS, name string) ([]ruleDocument, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}

	var docs []ruleDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for i := 1; ; i++ {
		var file ruleFile
		err := dec.Decode(&file)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode rule file document %d: %w", i, err)
		}
		docs = append(docs, file.documents()...)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("rule file declares no rules")
	}
	return docs, nil
}

func (d ruleDocument) isEmpty() bool {
	return d.ID == "" && d.Description == "" && d.Severity == "" && len(d.Matches) == 0
}

// compileRule validates a rule document. A nil rule means the document was rejected.
func compileRule(doc ruleDocument, source string) (*Rule, []error) {
	shapeErr := func(reason string) *RuleShapeError {
		return &RuleShapeError{Source: source, RuleID: doc.ID, Reason: reason}
	}

	id := strings.TrimSpace(doc.ID)
	if id == "" {
		return nil, []error{shapeErr("missing id")}
	}
	if strings.TrimSpace(doc.Description) == "" {
		return nil, []error{shapeErr("missing description")}
	}
	severity, err := ParseSeverity(doc.Severity)
	if err != nil {
		return nil, []error{shapeErr(err.Error())}
	}
	if len(doc.Matches) == 0 {
		return nil, []error{shapeErr("no match patterns")}
	}

	var diags []error
	rule := &Rule{
		ID:          id,
		Description: doc.Description,
		Severity:    severity,
		Source:      source,
	}
	for i, m := range doc.Matches {
		if strings.TrimSpace(m.NodeType) == "" {
			return nil, []error{shapeErr(fmt.Sprintf("match pattern %d has no node_type", i+1))}
		}

		kind, ok := syntax.ParseKind(m.NodeType)
		if !ok {
			diags = append(diags, &UnsupportedNodeKindError{Source: source, RuleID: id, NodeType: m.NodeType})
		} else if m.FuncName != "" && kind != syntax.KindCall {
			return nil, []error{shapeErr(fmt.Sprintf("match pattern %d: func_name only applies to Call patterns, not %s", i+1, kind))}
		}

		rule.Patterns = append(rule.Patterns, MatchPattern{
			NodeType: m.NodeType,
			Kind:     kind,
			FuncName: m.FuncName,
		})
	}

	return rule, diags
}

// duplicateIDs reports ids declared by more than one rule, in first-seen order.
func duplicateIDs(loaded []Rule) []*DuplicateRuleIDError {
	sources := map[string][]string{}
	var order []string
	for _, r := range loaded {
		if _, seen := sources[r.ID]; !seen {
			order = append(order, r.ID)
		}
		sources[r.ID] = append(sources[r.ID], r.Source)
	}

	var dups []*DuplicateRuleIDError
	for _, id := range order {
		if len(sources[id]) > 1 {
			dups = append(dups, &DuplicateRuleIDError{RuleID: id, Sources: sources[id]})
		}
	}
	return dups
}
