package config

import (
	"os"
	"time"
)

// Defaults applied when the configuration leaves a value unset.
const (
	DefaultWorkers    = 4
	DefaultGitDepth   = 1
	DefaultGitTimeout = 10 * time.Minute
	MaxWorkers        = 256
)

// DefaultInclude selects Python sources anywhere below the scan root.
var DefaultInclude = []string{"**.py"}

// DefaultExclude skips VCS metadata, bytecode caches and virtual environments.
var DefaultExclude = []string{
	"**/.git/**",
	"**/__pycache__/**",
	"**/venv/**",
	"**/.venv/**",
}

// GetWorkers returns the configured worker count or the default.
func GetWorkers(cfg *Config) int {
	if cfg == nil {
		return DefaultWorkers
	}
	return SetThen(cfg.Scanner.Workers, DefaultWorkers)
}

// GetInclude returns the include globs, falling back to DefaultInclude.
func GetInclude(cfg *Config) []string {
	if cfg == nil || len(cfg.Scanner.Include) == 0 {
		return DefaultInclude
	}
	return cfg.Scanner.Include
}

// GetExclude returns the exclude globs, falling back to DefaultExclude.
// An explicitly empty list in the file is treated as unset.
func GetExclude(cfg *Config) []string {
	if cfg == nil || len(cfg.Scanner.Exclude) == 0 {
		return DefaultExclude
	}
	return cfg.Scanner.Exclude
}

// GetGitTimeout returns the clone timeout.
func GetGitTimeout(cfg *Config) time.Duration {
	if cfg == nil {
		return DefaultGitTimeout
	}
	return SetThen(cfg.GitClient.Timeout, DefaultGitTimeout)
}

// GetGitDepth returns the clone depth.
func GetGitDepth(cfg *Config) int {
	if cfg == nil {
		return DefaultGitDepth
	}
	return SetThen(cfg.GitClient.Depth, DefaultGitDepth)
}

// GetTempFolder returns the parent folder for temporary clones.
func GetTempFolder(cfg *Config) string {
	if cfg == nil || cfg.Scanner.TempFolder == "" {
		return os.TempDir()
	}
	return cfg.Scanner.TempFolder
}

// GetArtifactsFolder returns the folder for scan records, empty when disabled.
func GetArtifactsFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Scanner.ArtifactsFolder
}
