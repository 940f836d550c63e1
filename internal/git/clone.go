package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-hclog"

	log "github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/logger"
)

// CloneRequest describes one repository to fetch.
type CloneRequest struct {
	URL          string
	Branch       string
	TargetFolder string
	// FullHistory disables the shallow clone depth from the configuration.
	FullHistory bool
}

// CloneRepository clones req.URL into req.TargetFolder and checks out the
// requested branch, reference or full commit hash. It returns the folder.
func (c *Client) CloneRepository(ctx context.Context, req CloneRequest) (string, error) {
	targetFolder := req.TargetFolder
	reference := determineReference(req.Branch)
	name := RepositoryName(req.URL)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	depth := c.depth
	if req.FullHistory || reference.IsCommit {
		depth = 0
	}

	c.logger.Debug("starting repository fetch", "repository", name, "branch", reference.Branch, "depth", depth, "targetFolder", targetFolder)
	repo, err := git.PlainCloneContext(ctx, targetFolder, false, &git.CloneOptions{
		Auth:            c.auth,
		URL:             req.URL,
		ReferenceName:   reference.Branch,
		SingleBranch:    reference.Branch != "",
		Progress:        log.GetLoggerOutput(c.logger),
		Depth:           depth,
		InsecureSkipTLS: c.insecureTLS,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryAlreadyExists) {
			return "", fmt.Errorf("%w: %s", ErrTargetExists, targetFolder)
		}
		return "", fmt.Errorf("error occurred during clone of %q: %w", name, err)
	}

	if reference.IsCommit {
		c.logger.Debug("checking out commit", "commit", reference.Hash.String(), "targetFolder", targetFolder)
		if err := checkoutCommit(repo, reference.Hash, c.logger, targetFolder); err != nil {
			return "", err
		}
	}

	c.logger.Info("repository cloned", "repository", name, "branch", reference.Branch, "targetFolder", targetFolder)
	return targetFolder, nil
}

// checkoutCommit checks out a specific commit in the repository.
func checkoutCommit(repo *git.Repository, commitHash plumbing.Hash, logger hclog.Logger, targetFolder string) error {
	w, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("error accessing worktree: %w", err)
	}
	h, err := repo.ResolveRevision(plumbing.Revision(commitHash.String()))
	if err != nil {
		logger.Error("error resolving revision", "error", err, "revision", commitHash.String(), "targetFolder", targetFolder)
		return fmt.Errorf("error resolving revision %s: %w", commitHash, err)
	}

	if err := w.Checkout(&git.CheckoutOptions{
		Hash:  *h,
		Force: true,
	}); err != nil {
		return fmt.Errorf("error occurred during checkout: %w", err)
	}
	return nil
}
