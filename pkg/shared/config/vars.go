package config

import (
	"time"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Logger    Logger    `yaml:"logger"`
	GitClient GitClient `yaml:"git_client"`
	Scanner   Scanner   `yaml:"scanner"`
}

// Logger configures the hclog logger used by every command.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// GitClient configures repository cloning.
type GitClient struct {
	Timeout             time.Duration `yaml:"timeout"`
	Depth               int           `yaml:"depth"`
	InsecureTLS         *bool         `yaml:"insecure_tls"`
	KnownHostsFile      string        `yaml:"known_hosts_file"`
	InsecureSkipHostKey *bool         `yaml:"insecure_skip_host_key"`
}

// Scanner configures rule loading, source collection and the worker pool.
type Scanner struct {
	Workers         int      `yaml:"workers"`
	RulesFolder     string   `yaml:"rules_folder"`
	Include         []string `yaml:"include"`
	Exclude         []string `yaml:"exclude"`
	MaxFileSize     int64    `yaml:"max_file_size"`
	TempFolder      string   `yaml:"temp_folder"`
	StrictRules     *bool    `yaml:"strict_rules"`
	ArtifactsFolder string   `yaml:"artifacts_folder"`
}
