package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	rulescmd "github.com/BaranTeyin1/Aegiscan-cli/cmd/rules"
	"github.com/BaranTeyin1/Aegiscan-cli/cmd/scan"
	"github.com/BaranTeyin1/Aegiscan-cli/cmd/version"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/config"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "aegiscan [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Aegiscan is a static analysis scanner for Python code.",
		Long: `Aegiscan parses Python sources and matches their syntax trees against
declarative rules to report risky constructs such as eval() or exec() calls.
Sources can be a local file, a local folder or a remote git repository.
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $AEGISCAN_CONFIG or ./config.yml)")
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(rulescmd.RulesCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
	}
	return errors.ExitCode(err)
}

func initConfig() error {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		return errors.NewCommandErrorf(errors.ExitCodeError, "failed to load config: %v", err)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	scan.Init(AppConfig, version.CoreVersion)
	rulescmd.Init(AppConfig)
	return nil
}
