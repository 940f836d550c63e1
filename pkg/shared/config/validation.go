package config

import (
	"fmt"
	"time"

	"github.com/gobwas/glob"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateGitConfig(&cfg.GitClient); err != nil {
		return fmt.Errorf("YAML global config: git_client directive is invalid: %w", err)
	}
	if err := ValidateScannerConfig(&cfg.Scanner); err != nil {
		return fmt.Errorf("YAML global config: scanner directive is invalid: %w", err)
	}
	return nil
}

// ValidateGitConfig checks if the Git configurations have valid values.
func ValidateGitConfig(gitConfig *GitClient) error {
	if gitConfig == nil {
		return fmt.Errorf("git configuration is nil")
	}
	if err := validateDuration(gitConfig.Timeout, "timeout", 1*time.Hour); err != nil {
		return err
	}
	if gitConfig.Depth < 0 {
		return fmt.Errorf("depth must not be negative: %d", gitConfig.Depth)
	}
	return nil
}

// ValidateScannerConfig checks the worker pool size, path globs and size limit.
func ValidateScannerConfig(scannerConfig *Scanner) error {
	if scannerConfig == nil {
		return fmt.Errorf("scanner configuration is nil")
	}
	if scannerConfig.Workers < 0 || scannerConfig.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d: %d", MaxWorkers, scannerConfig.Workers)
	}
	if scannerConfig.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative: %d", scannerConfig.MaxFileSize)
	}
	if err := validateGlobs(scannerConfig.Include, "include"); err != nil {
		return err
	}
	if err := validateGlobs(scannerConfig.Exclude, "exclude"); err != nil {
		return err
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateGlobs compiles every pattern with '/' as the separator.
func validateGlobs(patterns []string, name string) error {
	for _, p := range patterns {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("invalid %s pattern %q: %w", name, p, err)
		}
	}
	return nil
}
