package rules

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/syntax"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/config"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/errors"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/files"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/logger"
)

// RunOptionsRules holds the arguments for the rules command.
type RunOptionsRules struct {
	RulesFolder string
	StrictRules bool
}

var (
	AppConfig         *config.Config
	rulesOptions      RunOptionsRules
	exampleRulesUsage = `  # Listing the built-in rules
  aegiscan rules

  # Checking a custom rules folder, failing on any malformed rule
  aegiscan rules --rules ./rules --strict-rules`
)

// RulesCmd represents the rules command.
var RulesCmd = &cobra.Command{
	Use:                   "rules [--rules DIR] [--strict-rules]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleRulesUsage,
	Short:                 "Lists the loaded rules and reports rule file problems",
	Args:                  cobra.NoArgs,
	RunE:                  runRulesCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
	RulesCmd.Long = generateLongDescription()
}

func runRulesCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-rules")

	folder := rulesOptions.RulesFolder
	if folder == "" && AppConfig != nil {
		folder = AppConfig.Scanner.RulesFolder
	}

	result, err := load(folder)
	if err != nil {
		logger.Error("failed to load rules", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	out := cmd.OutOrStdout()
	if err := printRules(out, result.Set.Rules()); err != nil {
		return err
	}
	printDiagnostics(out, result.Diagnostics)

	strict := rulesOptions.StrictRules || config.GetBoolValue(AppConfig, "Scanner.StrictRules", false)
	if strict && len(result.Diagnostics) > 0 {
		return errors.NewCommandErrorf(errors.ExitCodeError, "%d rule diagnostics", len(result.Diagnostics))
	}
	return nil
}

// load reads folder, or the built-in rules when folder is empty. Rule
// diagnostics are listed rather than logged.
func load(folder string) (*rules.LoadResult, error) {
	quiet := hclog.NewNullLogger()
	if folder == "" {
		return rules.LoadBuiltin(quiet)
	}
	path, err := files.ExpandPath(folder)
	if err != nil {
		return nil, err
	}
	return rules.LoadFolder(path, quiet)
}

// printRules writes one row per rule in load order.
func printRules(w io.Writer, list []rules.Rule) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tMATCHES\tSOURCE")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Severity, describePatterns(r.Patterns), r.Source)
	}
	return tw.Flush()
}

func describePatterns(patterns []rules.MatchPattern) string {
	if len(patterns) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		name := p.Kind.String()
		if p.Kind == syntax.KindUnknown {
			name = p.NodeType + "?"
		}
		if p.FuncName != "" {
			name += "(" + p.FuncName + ")"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " | ")
}

func printDiagnostics(w io.Writer, diags []error) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d diagnostics:\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(w, "  %v\n", d)
	}
}

func generateLongDescription() string {
	return fmt.Sprintf(`Lists the loaded rules and reports rule file problems.

Rules are read from --rules, else from scanner.rules_folder in the config,
else the built-in rules are used. Supported node types:
  %s`, strings.Join(syntax.SupportedKinds(), ", "))
}

func init() {
	RulesCmd.Flags().StringVarP(&rulesOptions.RulesFolder, "rules", "r", "", "Folder with YAML/JSON rule files. The built-in rules are listed when unset.")
	RulesCmd.Flags().BoolVar(&rulesOptions.StrictRules, "strict-rules", false, "Exit with an error when any rule diagnostic is reported.")
	RulesCmd.Flags().BoolP("help", "h", false, "Show help for the rules command.")
}
