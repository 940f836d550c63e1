package scan

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/ci"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/engine"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/findings"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/git"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/report"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/sources"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/config"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/files"
)

// Mode constants
const (
	ModeLocal = "local"
	ModeGit   = "git"
)

// determineMode determines the mode based on the validated options.
func determineMode(options *RunOptionsScan) string {
	if options.GitURL != "" {
		return ModeGit
	}
	return ModeLocal
}

// scanTarget is the folder or file being scanned.
type scanTarget struct {
	root string
	// relative reports file names relative to root, used for temporary clones.
	relative bool
	display  string
	cleanup  func()
}

// localPath returns the positional path or --local-file.
func localPath(options *RunOptionsScan, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return options.LocalFile
}

// prepareTarget resolves a local path or clones the repository into
// <temp>/aegiscan-<run id>. The clone is removed by cleanup unless KeepClone is set.
func prepareTarget(ctx context.Context, options *RunOptionsScan, args []string, runID string, logger hclog.Logger) (*scanTarget, error) {
	if determineMode(options) == ModeLocal {
		path, err := files.ExpandPath(localPath(options, args))
		if err != nil {
			return nil, err
		}
		return &scanTarget{root: path, display: path, cleanup: func() {}}, nil
	}

	client, err := git.New(logger, AppConfig, options.AuthType, options.SSHKey)
	if err != nil {
		return nil, err
	}

	targetFolder := filepath.Join(config.GetTempFolder(AppConfig), "aegiscan-"+runID)
	cleanup := func() {
		if options.KeepClone {
			logger.Info("keeping cloned repository", "path", targetFolder)
			return
		}
		if err := os.RemoveAll(targetFolder); err != nil {
			logger.Warn("failed to remove cloned repository", "path", targetFolder, "error", err)
		}
	}

	if _, err := client.CloneRepository(ctx, git.CloneRequest{
		URL:          options.GitURL,
		Branch:       options.Branch,
		TargetFolder: targetFolder,
		FullHistory:  options.DiffBase != "",
	}); err != nil {
		cleanup()
		return nil, err
	}

	return &scanTarget{
		root:     targetFolder,
		relative: true,
		display:  git.RepositoryName(options.GitURL),
		cleanup:  cleanup,
	}, nil
}

// loadRules loads the rules folder from the flag or config, or the built-in
// rules when neither is set. In strict mode any diagnostic is fatal.
func loadRules(options *RunOptionsScan, logger hclog.Logger) (*rules.Set, error) {
	folder := options.RulesFolder
	if folder == "" && AppConfig != nil {
		folder = AppConfig.Scanner.RulesFolder
	}

	var (
		result *rules.LoadResult
		err    error
	)
	if folder == "" {
		result, err = rules.LoadBuiltin(logger)
	} else {
		folder, err = files.ExpandPath(folder)
		if err != nil {
			return nil, err
		}
		result, err = rules.LoadFolder(folder, logger)
	}
	if err != nil {
		return nil, err
	}

	strict := options.StrictRules
	if AppConfig != nil {
		strict = strict || config.GetBoolValue(AppConfig.Scanner, "StrictRules", false)
	}
	if strict {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("invalid rules: %w", err)
		}
	}

	if result.Set.Len() == 0 {
		logger.Warn("no rules loaded, nothing will be reported", "folder", folder)
	}
	return result.Set, nil
}

// collectSources gathers the files to scan as engine inputs.
func collectSources(target *scanTarget, logger hclog.Logger) ([]engine.File, error) {
	collected, err := sources.Collect(target.root, sources.Options{
		Include:       config.GetInclude(AppConfig),
		Exclude:       config.GetExclude(AppConfig),
		MaxFileSize:   maxFileSize(),
		RelativePaths: target.relative,
	}, logger)
	if err != nil {
		return nil, err
	}

	out := make([]engine.File, len(collected))
	for i, f := range collected {
		out[i] = engine.File{Filename: f.Path, Source: f.Content}
	}
	return out, nil
}

func maxFileSize() int64 {
	if AppConfig == nil {
		return 0
	}
	return AppConfig.Scanner.MaxFileSize
}

// parseSeverity is only called on validated input.
func parseSeverity(s string) rules.Severity {
	sev, _ := rules.ParseSeverity(s)
	return sev
}

// filterToChangedLines keeps findings on lines added between base and HEAD of
// the repository enclosing the target.
func filterToChangedLines(list []findings.Finding, target *scanTarget, base string, logger hclog.Logger) ([]findings.Finding, error) {
	md, err := git.CollectRepositoryMetadata(target.root)
	if err != nil {
		return nil, err
	}

	added, err := git.AddedLines(md.RootFolder, base, "HEAD")
	if err != nil {
		return nil, err
	}

	kept := make([]findings.Finding, 0, len(list))
	for _, f := range list {
		rel, ok := repoRelative(f.Filename, target, md.RootFolder)
		if ok && added[rel][f.Line] {
			kept = append(kept, f)
		}
	}
	logger.Debug("filtered findings to changed lines", "base", base, "changed_files", len(added), "before", len(list), "after", len(kept))
	return kept, nil
}

// repoRelative maps a reported file name to its slash-separated path in the repository.
func repoRelative(filename string, target *scanTarget, repoRoot string) (string, bool) {
	path := filename
	if target.relative {
		path = filepath.Join(target.root, filename)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(repoRoot, abs)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// detectCI is swapped out by tests.
var detectCI = ci.Detect

// collectMetadata describes the scanned repository for the report, if any.
// Local scans fall back to the CI job environment for anything the checkout
// does not know, such as the branch of a detached HEAD.
func collectMetadata(target *scanTarget, logger hclog.Logger) report.Metadata {
	meta := report.Metadata{ToolVersion: ToolVersion}

	root := target.root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}
	md, err := git.CollectRepositoryMetadata(root)
	switch {
	case err == nil:
		if md.RepositoryURL != nil {
			meta.RepositoryURL = *md.RepositoryURL
		}
		if md.BranchName != nil {
			meta.Branch = *md.BranchName
		}
		if md.CommitHash != nil {
			meta.Commit = *md.CommitHash
		}
	case !stderrors.Is(err, git.ErrNotARepository):
		logger.Debug("failed to collect repository metadata", "error", err)
	}

	if target.relative {
		return meta
	}
	env := detectCI()
	if env.Kind == ci.KindUnknown {
		return meta
	}
	logger.Debug("filling report metadata from CI environment", "provider", env.Kind)
	if meta.RepositoryURL == "" {
		meta.RepositoryURL = env.RepositoryURL
	}
	if meta.Branch == "" {
		meta.Branch = env.Branch
	}
	if meta.Commit == "" {
		meta.Commit = env.CommitHash
	}
	return meta
}

// resolveOutputPath appends a default report name when outputPath is a folder.
func resolveOutputPath(outputPath string, format report.Format) (string, error) {
	path, _, err := files.DetermineFileFullPath(outputPath, "aegiscan-report"+format.Extension())
	return path, err
}

// FileStatus is the per-file line of a scan record.
type FileStatus struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Findings int    `json:"findings"`
	Error    string `json:"error,omitempty"`
}

// ScanRecord is the artifact saved after each scan when an artifacts folder is configured.
type ScanRecord struct {
	RunID      string       `json:"run_id"`
	Target     string       `json:"target"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Rules      int          `json:"rules"`
	Reported   int          `json:"reported_findings"`
	Files      []FileStatus `json:"files"`
}

func newScanRecord(runID string, target *scanTarget, started time.Time, ruleCount int, batch engine.BatchResult, reported int) ScanRecord {
	record := ScanRecord{
		RunID:      runID,
		Target:     target.display,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
		Rules:      ruleCount,
		Reported:   reported,
		Files:      make([]FileStatus, 0, len(batch.Files)),
	}
	for _, f := range batch.Files {
		status := FileStatus{Filename: f.Filename, Status: f.Status(), Findings: len(f.Findings)}
		if f.Err != nil {
			status.Error = f.Err.Error()
		}
		record.Files = append(record.Files, status)
	}
	return record
}
