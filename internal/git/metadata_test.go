package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectRepositoryMetadata(t *testing.T) {
	repoDir, repo, wt := initRepo(t)
	addOrigin(t, repo, "https://github.com/example/service.git")
	hash := commitFiles(t, wt, map[string]string{"src/pkg/a.py": "a = 1\n"}, "init")

	md, err := CollectRepositoryMetadata(filepath.Join(repoDir, "src", "pkg"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(repoDir), md.RootFolder)
	assert.Equal(t, "src/pkg", md.Subfolder)
	require.NotNil(t, md.CommitHash)
	assert.Equal(t, hash.String(), *md.CommitHash)
	require.NotNil(t, md.BranchName)
	assert.Equal(t, "master", *md.BranchName)
	require.NotNil(t, md.RepositoryURL)
	assert.Equal(t, "https://github.com/example/service", *md.RepositoryURL)
}

func TestCollectRepositoryMetadataOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("a = 1\n"), 0o644))

	md, err := CollectRepositoryMetadata(dir)
	assert.ErrorIs(t, err, ErrNotARepository)
	assert.Equal(t, filepath.Clean(dir), md.RootFolder)
	assert.Nil(t, md.CommitHash)

	_, err = CollectRepositoryMetadata("")
	assert.Error(t, err)
}
