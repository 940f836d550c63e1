package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineFileFullPath(t *testing.T) {
	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "report.json")
	require.NoError(t, os.WriteFile(existing, []byte("[]"), 0644))

	tests := []struct {
		name         string
		inputPath    string
		nameTemplate string
		expectFile   string
		expectFolder string
	}{
		{
			name:         "existing directory",
			inputPath:    tmpDir,
			nameTemplate: "aegiscan-report.txt",
			expectFile:   filepath.Join(tmpDir, "aegiscan-report.txt"),
			expectFolder: tmpDir,
		},
		{
			name:         "existing file",
			inputPath:    existing,
			nameTemplate: "ignored.txt",
			expectFile:   existing,
			expectFolder: tmpDir,
		},
		{
			name:         "missing path without extension is a folder",
			inputPath:    filepath.Join(tmpDir, "reports"),
			nameTemplate: "aegiscan-report.sarif",
			expectFile:   filepath.Join(tmpDir, "reports", "aegiscan-report.sarif"),
			expectFolder: filepath.Join(tmpDir, "reports"),
		},
		{
			name:         "missing file with extension",
			inputPath:    filepath.Join(tmpDir, "out", "results.yaml"),
			nameTemplate: "ignored.txt",
			expectFile:   filepath.Join(tmpDir, "out", "results.yaml"),
			expectFolder: filepath.Join(tmpDir, "out"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath, folderPath, err := DetermineFileFullPath(tt.inputPath, tt.nameTemplate)
			require.NoError(t, err)
			assert.Equal(t, tt.expectFile, filePath)
			assert.Equal(t, tt.expectFolder, folderPath)
		})
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "out.txt")

	require.NoError(t, WriteFile(target, []byte("first")))
	require.NoError(t, WriteFile(target, []byte("2nd")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "2nd", string(data))
}

func TestValidatePaths(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(file, []byte("k"), 0600))

	assert.NoError(t, ValidatePath(file))
	assert.ErrorContains(t, ValidatePath(dir), "is a directory")
	assert.Error(t, ValidatePath(filepath.Join(dir, "missing")))

	assert.NoError(t, ValidateDir(dir))
	assert.ErrorContains(t, ValidateDir(file), "is not a directory")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/.ssh/id_ed25519")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), got)

	got, err = ExpandPath("/etc/hosts")
	require.NoError(t, err)
	assert.Equal(t, "/etc/hosts", got)
}
