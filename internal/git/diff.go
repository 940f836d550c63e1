package git

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// AddedLines maps every file changed between base and head to the 1-based
// line numbers, in the head version, that were added. Paths are
// slash-separated and relative to the repository root. Deleted and binary
// files are skipped. base and head are any revisions the repository can resolve.
func AddedLines(repoPath, base, head string) (map[string]map[int]bool, error) {
	if base == "" {
		return nil, fmt.Errorf("base revision is required to compute diff")
	}
	if head == "" {
		head = "HEAD"
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", repoPath, err)
	}

	baseTree, err := resolveTree(repo, base)
	if err != nil {
		return nil, err
	}
	headTree, err := resolveTree(repo, head)
	if err != nil {
		return nil, err
	}

	patch, err := baseTree.Patch(headTree)
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}

	result := make(map[string]map[int]bool)
	for _, fp := range patch.FilePatches() {
		_, to := fp.Files()
		if to == nil || fp.IsBinary() {
			continue
		}

		added := make(map[int]bool)
		line := 1
		for _, chunk := range fp.Chunks() {
			n := countLines(chunk.Content())
			switch chunk.Type() {
			case diff.Add:
				for i := 0; i < n; i++ {
					added[line+i] = true
				}
				line += n
			case diff.Equal:
				line += n
			}
		}

		if len(added) > 0 {
			result[to.Path()] = added
		}
	}
	return result, nil
}

func resolveTree(repo *git.Repository, revision string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %q: %w", revision, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %q: %w", revision, err)
	}
	return tree, nil
}

// countLines counts lines in a chunk; a trailing line without newline counts.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
