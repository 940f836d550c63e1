package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScanArgs(t *testing.T) {
	tmpDir := t.TempDir()
	keyFile := filepath.Join(tmpDir, "id_ed25519")
	require.NoError(t, os.WriteFile(keyFile, []byte("key"), 0600))

	tests := []struct {
		name    string
		options RunOptionsScan
		args    []string
		wantErr string
	}{
		{
			name: "valid target path",
			args: []string{tmpDir},
		},
		{
			name:    "valid local-file flag",
			options: RunOptionsScan{LocalFile: tmpDir, Severity: "high", Format: "sarif", Threads: 8},
		},
		{
			name:    "valid git url",
			options: RunOptionsScan{GitURL: "https://github.com/org/repo.git", Branch: "main", AuthType: "http"},
		},
		{
			name:    "valid ssh key",
			options: RunOptionsScan{GitURL: "git@github.com:org/repo.git", AuthType: "ssh-key", SSHKey: keyFile},
		},
		{
			name:    "no target",
			wantErr: "either a target path, the 'local-file' flag or the 'git-url' flag must be specified",
		},
		{
			name:    "path and git url",
			options: RunOptionsScan{GitURL: "https://github.com/org/repo.git"},
			args:    []string{tmpDir},
			wantErr: "only one of a target path",
		},
		{
			name:    "missing path",
			args:    []string{filepath.Join(tmpDir, "missing")},
			wantErr: "the target path does not exist",
		},
		{
			name:    "branch without git url",
			options: RunOptionsScan{Branch: "main"},
			args:    []string{tmpDir},
			wantErr: "require the 'git-url' flag",
		},
		{
			name:    "unknown format",
			options: RunOptionsScan{Format: "html"},
			args:    []string{tmpDir},
			wantErr: `unknown output format "html"`,
		},
		{
			name:    "unknown severity",
			options: RunOptionsScan{Severity: "INFO"},
			args:    []string{tmpDir},
			wantErr: `unknown severity "INFO"`,
		},
		{
			name:    "negative threads",
			options: RunOptionsScan{Threads: -1},
			args:    []string{tmpDir},
			wantErr: "the 'threads' flag must be between 0 (config default) and 256",
		},
		{
			name:    "zero threads uses config default",
			options: RunOptionsScan{Threads: 0},
			args:    []string{tmpDir},
		},
		{
			name:    "too many threads",
			options: RunOptionsScan{Threads: 257},
			args:    []string{tmpDir},
			wantErr: "the 'threads' flag must be between 0 (config default) and 256",
		},
		{
			name:    "rules folder is a file",
			options: RunOptionsScan{RulesFolder: keyFile},
			args:    []string{tmpDir},
			wantErr: "invalid 'rules' flag",
		},
		{
			name:    "unsupported auth type",
			options: RunOptionsScan{GitURL: "https://github.com/org/repo.git", AuthType: "token"},
			wantErr: `unsupported 'auth-type' "token"`,
		},
		{
			name:    "ssh-key auth without key",
			options: RunOptionsScan{GitURL: "git@github.com:org/repo.git", AuthType: "ssh-key"},
			wantErr: "the 'ssh-key' flag must be specified",
		},
		{
			name:    "ssh key with http auth",
			options: RunOptionsScan{GitURL: "https://github.com/org/repo.git", AuthType: "http", SSHKey: keyFile},
			wantErr: "the 'ssh-key' flag is only used with",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := tt.options
			err := validateScanArgs(&options, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDetermineMode(t *testing.T) {
	assert.Equal(t, ModeLocal, determineMode(&RunOptionsScan{LocalFile: "x"}))
	assert.Equal(t, ModeGit, determineMode(&RunOptionsScan{GitURL: "https://github.com/org/repo.git"}))
}
