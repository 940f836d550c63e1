package git

import (
	"encoding/hex"
	"path"
	"path/filepath"
	"strings"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// reference is what a clone should check out.
type reference struct {
	Branch   plumbing.ReferenceName
	Hash     plumbing.Hash
	IsCommit bool
}

// determineReference interprets branch as a full commit hash, a full reference
// name or a short branch name. An empty branch means the remote HEAD.
func determineReference(branch string) reference {
	if isCommitHash(branch) {
		return reference{Hash: plumbing.NewHash(branch), IsCommit: true}
	}
	if branch == "" {
		return reference{}
	}
	ref := plumbing.ReferenceName(branch)
	if !ref.IsBranch() && !ref.IsRemote() && !ref.IsTag() && !ref.IsNote() {
		ref = plumbing.NewBranchReferenceName(branch)
	}
	return reference{Branch: ref}
}

func isCommitHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// RepositoryName returns a short display name for a clone URL: the full
// name for hosted VCS URLs, else the last path element.
func RepositoryName(cloneURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(cloneURL, "/"), ".git")
	if !strings.Contains(cloneURL, "://") && !strings.Contains(cloneURL, "@") {
		return path.Base(filepath.ToSlash(trimmed))
	}
	if info, err := vcsurl.Parse(cloneURL); err == nil {
		if name := strings.Trim(info.FullName, "/"); name != "" {
			return name
		}
	}
	if i := strings.LastIndexAny(trimmed, ":/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}

// findGitRepositoryPath walks up from sourceFolder to the enclosing repository root.
func findGitRepositoryPath(sourceFolder string) (string, error) {
	if sourceFolder == "" {
		return "", ErrNotARepository
	}

	for {
		if _, err := git.PlainOpen(sourceFolder); err == nil {
			return sourceFolder, nil
		}

		parent := filepath.Dir(sourceFolder)
		if parent == sourceFolder {
			return "", ErrNotARepository
		}
		sourceFolder = parent
	}
}
