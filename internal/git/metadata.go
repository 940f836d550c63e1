package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RepositoryMetadata describes the repository a scanned folder belongs to.
type RepositoryMetadata struct {
	BranchName    *string
	CommitHash    *string
	RepositoryURL *string
	// Subfolder is the scanned folder relative to RootFolder, slash-separated.
	Subfolder  string
	RootFolder string
}

// CollectRepositoryMetadata finds the repository enclosing sourceFolder and
// reads its HEAD and origin remote. It returns ErrNotARepository, together
// with metadata holding only RootFolder, when there is none.
func CollectRepositoryMetadata(sourceFolder string) (*RepositoryMetadata, error) {
	if sourceFolder == "" {
		return &RepositoryMetadata{}, fmt.Errorf("source folder is not set")
	}

	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	md := &RepositoryMetadata{
		RootFolder: filepath.Clean(sourceFolder),
	}

	rootFolder, err := findGitRepositoryPath(sourceFolder)
	if err != nil {
		return md, err
	}
	md.RootFolder = filepath.Clean(rootFolder)

	repo, err := git.PlainOpen(rootFolder)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	if rel, err := filepath.Rel(rootFolder, sourceFolder); err == nil && rel != "." {
		md.Subfolder = filepath.ToSlash(rel)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			branchName := head.Name().Short()
			md.BranchName = &branchName
		}
		hash := head.Hash().String()
		md.CommitHash = &hash
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			url := strings.TrimSuffix(cfg.URLs[0], ".git")
			md.RepositoryURL = &url
		}
	}

	return md, nil
}
