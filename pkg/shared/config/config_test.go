package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yml")
	content := `
logger:
  level: debug
  json_format: true
git_client:
  timeout: 2m
  depth: 5
  known_hosts_file: ~/.ssh/known_hosts
  insecure_skip_host_key: false
scanner:
  workers: 8
  rules_folder: ./rules
  include: ["src/**.py"]
  max_file_size: 1024
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, GetBoolValue(cfg, "Logger.JSONFormat", false))
	assert.True(t, GetBoolValue(cfg, "Logger.DisableTime", true), "unset pointer falls back to the default")
	assert.Equal(t, 2*time.Minute, GetGitTimeout(cfg))
	assert.Equal(t, 5, GetGitDepth(cfg))
	assert.Equal(t, "~/.ssh/known_hosts", cfg.GitClient.KnownHostsFile)
	assert.False(t, GetBoolValue(cfg, "GitClient.InsecureSkipHostKey", true))
	assert.Equal(t, 8, GetWorkers(cfg))
	assert.Equal(t, "./rules", cfg.Scanner.RulesFolder)
	assert.Equal(t, []string{"src/**.py"}, GetInclude(cfg))
	assert.Equal(t, DefaultExclude, GetExclude(cfg))
	assert.Equal(t, int64(1024), cfg.Scanner.MaxFileSize)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigMissingFiles(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})

	t.Run("missing default file", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		defer os.Chdir(wd)
		t.Setenv(ConfigEnv, "")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultWorkers, GetWorkers(cfg))
		assert.Equal(t, DefaultGitTimeout, GetGitTimeout(cfg))
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yml")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultInclude, GetInclude(cfg))
	})

	t.Run("directory instead of file", func(t *testing.T) {
		_, err := LoadConfig(t.TempDir())
		assert.ErrorContains(t, err, "is a directory")
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name: "zero config is valid",
			cfg:  &Config{},
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: "YAML global config: configuration object is nil",
		},
		{
			name:    "negative git timeout",
			cfg:     &Config{GitClient: GitClient{Timeout: -time.Second}},
			wantErr: `YAML global config: git_client directive is invalid: invalid duration for "timeout": -1s cannot be negative`,
		},
		{
			name:    "git timeout too long",
			cfg:     &Config{GitClient: GitClient{Timeout: 2 * time.Hour}},
			wantErr: `YAML global config: git_client directive is invalid: "timeout" duration is too long: 2h0m0s exceeds maximum of 1h0m0s`,
		},
		{
			name:    "too many workers",
			cfg:     &Config{Scanner: Scanner{Workers: 1000}},
			wantErr: "YAML global config: scanner directive is invalid: workers must be between 1 and 256: 1000",
		},
		{
			name:    "negative file size",
			cfg:     &Config{Scanner: Scanner{MaxFileSize: -1}},
			wantErr: "YAML global config: scanner directive is invalid: max_file_size must not be negative: -1",
		},
		{
			name:    "broken glob",
			cfg:     &Config{Scanner: Scanner{Exclude: []string{"[a-"}}},
			wantErr: `YAML global config: scanner directive is invalid: invalid exclude pattern "[a-"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, 3, SetThen(0, 3))
	assert.Equal(t, 7, SetThen(7, 3))
	assert.Equal(t, "x", SetThen("", "x"))
	assert.Equal(t, time.Second, SetThen(time.Duration(0), time.Second))
}

func TestGetTempFolder(t *testing.T) {
	assert.Equal(t, os.TempDir(), GetTempFolder(nil))
	assert.Equal(t, os.TempDir(), GetTempFolder(&Config{}))
	assert.Equal(t, "/var/tmp/aegiscan", GetTempFolder(&Config{Scanner: Scanner{TempFolder: "/var/tmp/aegiscan"}}))
}
