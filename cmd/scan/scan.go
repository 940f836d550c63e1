package scan

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/engine"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/findings"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/report"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/syntax"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/artifacts"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/config"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/errors"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/logger"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	LocalFile      string
	GitURL         string
	Branch         string
	AuthType       string
	SSHKey         string
	RulesFolder    string
	StrictRules    bool
	OutputPath     string
	Format         string
	Severity       string
	DiffBase       string
	Threads        int
	KeepClone      bool
	FailOnFindings bool
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	ToolVersion      = "unknown"
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scanning a local project with the built-in rules
  aegiscan scan /path/to/my_project

  # Scanning a single file and keeping only HIGH findings
  aegiscan scan --severity HIGH /path/to/app.py

  # Scanning a remote repository and saving a SARIF report
  aegiscan scan --git-url https://github.com/org/repo.git --output results/repo.sarif

  # Scanning a private repository branch over SSH with a custom rules folder
  aegiscan scan --git-url git@github.com:org/repo.git --branch develop --auth-type ssh-key --ssh-key ~/.ssh/id_ed25519 --rules ./rules

  # Reporting only findings on lines added since main, failing the build if any remain
  aegiscan scan --diff-base main --fail-on-findings /path/to/checkout`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--git-url URL [--branch BRANCH] [--auth-type TYPE] [--ssh-key PATH] | --local-file PATH | PATH] [--rules DIR] [--output PATH] [--format FORMAT] [--severity LEVEL] [-j THREADS]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scans Python sources for vulnerable code patterns",
	Long: `Scans Python sources for vulnerable code patterns.

Every .py file below the target is parsed once and matched against the loaded
rules. Files that cannot be parsed are reported and skipped; the remaining
files are still scanned. Exit codes: 0 success, 1 error, 2 some files could
not be analysed, 3 findings present with --fail-on-findings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, version string) {
	AppConfig = cfg
	ToolVersion = version
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-scan")

	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	return runScan(cmd.Context(), cmd.OutOrStdout(), &scanOptions, args, logger)
}

// runScan performs the scan described by options and writes the report.
func runScan(ctx context.Context, stdout io.Writer, options *RunOptionsScan, args []string, logger hclog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.New().String()
	started := time.Now()

	format, err := report.DetermineFormat(options.Format, options.OutputPath)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	ruleSet, err := loadRules(options, logger)
	if err != nil {
		logger.Error("failed to load rules", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	target, err := prepareTarget(ctx, options, args, runID, logger)
	if err != nil {
		logger.Error("failed to prepare scan target", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}
	defer target.cleanup()

	sourceFiles, err := collectSources(target, logger)
	if err != nil {
		logger.Error("failed to collect sources", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}
	if len(sourceFiles) == 0 {
		logger.Warn("no Python sources found", "target", target.display)
	}

	threads := options.Threads
	if threads == 0 {
		threads = config.GetWorkers(AppConfig)
	}

	eng := engine.New(ruleSet, syntax.NewPythonProvider(), logger)
	batch := eng.ScanFiles(ctx, sourceFiles, threads)
	for _, failed := range batch.Failures() {
		logger.Warn("file could not be analysed", "file", failed.Filename, "error", failed.Err)
	}

	results := batch.Findings()
	if options.DiffBase != "" {
		results, err = filterToChangedLines(results, target, options.DiffBase, logger)
		if err != nil {
			logger.Error("failed to compute changed lines", "error", err)
			return errors.NewCommandError(err, errors.ExitCodeError)
		}
	}
	if options.Severity != "" {
		results = findings.FilterBySeverity(results, parseSeverity(options.Severity))
	}

	meta := collectMetadata(target, logger)
	if err := writeReport(stdout, options.OutputPath, format, results, meta, logger); err != nil {
		logger.Error("failed to write report", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	logger.Info("scan summary", "files", len(sourceFiles), "failed", len(batch.Failures()), "findings", len(results), "by_severity", report.Summary(findings.Summarize(results)))

	if dir := config.GetArtifactsFolder(AppConfig); dir != "" {
		record := newScanRecord(runID, target, started, eng.RuleCount(), batch, len(results))
		if _, err := artifacts.SaveArtifactJSON(dir, logger, "scan", runID, record); err != nil {
			logger.Warn("failed to save scan artifact", "error", err)
		}
	}

	if failed := len(batch.Failures()); failed > 0 {
		return errors.NewCommandErrorf(errors.ExitCodeScanFailure, "%d of %d files could not be analysed", failed, len(sourceFiles))
	}
	if options.FailOnFindings && len(results) > 0 {
		return errors.NewCommandErrorf(errors.ExitCodeFindings, "%d findings reported", len(results))
	}

	logger.Debug("scan command completed successfully", "duration", time.Since(started).String())
	return nil
}

// writeReport writes to stdout when no output path is set, else to the file.
// A folder output path receives a default report file name.
func writeReport(stdout io.Writer, outputPath string, format report.Format, results []findings.Finding, meta report.Metadata, logger hclog.Logger) error {
	if outputPath == "" {
		return report.Write(stdout, format, results, meta)
	}

	path, err := resolveOutputPath(outputPath, format)
	if err != nil {
		return err
	}
	if err := report.WriteFile(path, format, results, meta); err != nil {
		return err
	}
	logger.Info("results saved", "path", path, "format", string(format))
	return nil
}

// Initialize flags for the scan command.
func init() {
	ScanCmd.Flags().StringVar(&scanOptions.LocalFile, "local-file", "", "Path to a local file or folder to scan. Same as the positional PATH.")
	ScanCmd.Flags().StringVar(&scanOptions.GitURL, "git-url", "", "Clone URL of a repository to fetch into a temporary folder and scan.")
	ScanCmd.Flags().StringVarP(&scanOptions.Branch, "branch", "b", "", "Branch, reference or full commit hash to check out with --git-url.")
	ScanCmd.Flags().StringVar(&scanOptions.AuthType, "auth-type", "none", "Authentication for --git-url: none, http, ssh-key or ssh-agent.")
	ScanCmd.Flags().StringVar(&scanOptions.SSHKey, "ssh-key", "", "Path to the SSH key used with --auth-type ssh-key.")
	ScanCmd.Flags().StringVarP(&scanOptions.RulesFolder, "rules", "r", "", "Folder with YAML/JSON rule files. The built-in rules are used when unset.")
	ScanCmd.Flags().BoolVar(&scanOptions.StrictRules, "strict-rules", false, "Fail when any rule file is malformed instead of skipping it.")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputPath, "output", "o", "", "Path to the output file or folder. Results go to stdout when unset.")
	ScanCmd.Flags().StringVarP(&scanOptions.Format, "format", "f", "", "Report format: text, json, yaml or sarif. Derived from the output file extension when unset.")
	ScanCmd.Flags().StringVar(&scanOptions.Severity, "severity", "", "Report only findings with this severity: LOW, MEDIUM, HIGH or CRITICAL.")
	ScanCmd.Flags().StringVar(&scanOptions.DiffBase, "diff-base", "", "Report only findings on lines added since this git revision.")
	ScanCmd.Flags().IntVarP(&scanOptions.Threads, "threads", "j", 0, "Number of files scanned concurrently. Defaults to scanner.workers from the config.")
	ScanCmd.Flags().BoolVar(&scanOptions.KeepClone, "keep-clone", false, "Keep the temporary clone of --git-url after the scan.")
	ScanCmd.Flags().BoolVar(&scanOptions.FailOnFindings, "fail-on-findings", false, "Exit with code 3 when findings are reported.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
