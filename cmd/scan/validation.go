package scan

import (
	"fmt"
	"os"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/git"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/report"
	"github.com/BaranTeyin1/Aegiscan-cli/internal/rules"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/config"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/files"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	targets := 0
	if len(args) > 0 {
		targets++
	}
	if options.LocalFile != "" {
		targets++
	}
	if options.GitURL != "" {
		targets++
	}
	switch {
	case targets == 0:
		return fmt.Errorf("either a target path, the 'local-file' flag or the 'git-url' flag must be specified")
	case targets > 1:
		return fmt.Errorf("only one of a target path, the 'local-file' flag and the 'git-url' flag can be used at a time")
	}

	if options.GitURL == "" {
		if options.Branch != "" || options.SSHKey != "" || options.KeepClone {
			return fmt.Errorf("the 'branch', 'ssh-key' and 'keep-clone' flags require the 'git-url' flag")
		}
		path, err := files.ExpandPath(localPath(options, args))
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("the target path does not exist: %v", path)
		}
	} else if err := validateAuthArgs(options); err != nil {
		return err
	}

	if options.RulesFolder != "" {
		path, err := files.ExpandPath(options.RulesFolder)
		if err != nil {
			return err
		}
		if err := files.ValidateDir(path); err != nil {
			return fmt.Errorf("invalid 'rules' flag: %w", err)
		}
	}

	if options.Format != "" {
		if _, err := report.ParseFormat(options.Format); err != nil {
			return err
		}
	}

	if options.Severity != "" {
		if _, err := rules.ParseSeverity(options.Severity); err != nil {
			return err
		}
	}

	if options.Threads < 0 || options.Threads > config.MaxWorkers {
		return fmt.Errorf("the 'threads' flag must be between 0 (config default) and %d", config.MaxWorkers)
	}

	return nil
}

// validateAuthArgs checks the clone authentication flags.
func validateAuthArgs(options *RunOptionsScan) error {
	switch options.AuthType {
	case "", git.AuthNone, git.AuthHTTP, git.AuthSSHAgent:
		if options.SSHKey != "" {
			return fmt.Errorf("the 'ssh-key' flag is only used with '--auth-type %s'", git.AuthSSHKey)
		}
	case git.AuthSSHKey:
		if options.SSHKey == "" {
			return fmt.Errorf("the 'ssh-key' flag must be specified with '--auth-type %s'", git.AuthSSHKey)
		}
		path, err := files.ExpandPath(options.SSHKey)
		if err != nil {
			return err
		}
		if err := files.ValidatePath(path); err != nil {
			return fmt.Errorf("invalid 'ssh-key' flag: %w", err)
		}
	default:
		return fmt.Errorf("unsupported 'auth-type' %q: must be one of none, http, ssh-key, ssh-agent", options.AuthType)
	}
	return nil
}
