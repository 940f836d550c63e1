package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/errors"
)

func TestInitConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AEGISCAN_CONFIG", "")
	previous := cfgFile
	t.Cleanup(func() { cfgFile = previous })

	valid := filepath.Join(dir, "valid.yml")
	require.NoError(t, os.WriteFile(valid, []byte("scanner:\n  workers: 2\n"), 0644))
	cfgFile = valid
	require.NoError(t, initConfig())
	assert.Equal(t, 2, AppConfig.Scanner.Workers)

	invalid := filepath.Join(dir, "invalid.yml")
	require.NoError(t, os.WriteFile(invalid, []byte("scanner:\n  workers: 1000\n"), 0644))
	cfgFile = invalid
	err := initConfig()
	require.Error(t, err)
	assert.Equal(t, errors.ExitCodeError, errors.ExitCode(err))

	cfgFile = filepath.Join(dir, "missing.yml")
	assert.Error(t, initConfig())
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"scan", "rules", "version"}, names)
}
