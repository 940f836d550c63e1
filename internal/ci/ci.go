// Package ci reads repository metadata exposed by CI job environments.
package ci

import (
	"os"
	"strings"
)

// Kind identifies a CI provider.
type Kind int

const (
	KindUnknown Kind = iota
	KindGitHub
	KindGitLab
	KindBitbucket
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Environment is the repository state a CI job was started for.
type Environment struct {
	Kind          Kind
	CommitHash    string
	Branch        string
	RepositoryURL string
}

// String returns the provider name.
func (k Kind) String() string {
	switch k {
	case KindGitHub:
		return "github"
	case KindGitLab:
		return "gitlab"
	case KindBitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// Detect reads the current process environment.
func Detect() Environment {
	return detectWithLookup(os.Getenv)
}

func detectWithLookup(lookup LookupFunc) Environment {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch {
	case lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "":
		return gitHub(lookup)
	case strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "":
		return gitLab(lookup)
	case lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "":
		return bitbucket(lookup)
	}
	return Environment{}
}

// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func gitHub(lookup LookupFunc) Environment {
	env := Environment{Kind: KindGitHub, CommitHash: lookup("GITHUB_SHA")}

	if server, repo := lookup("GITHUB_SERVER_URL"), lookup("GITHUB_REPOSITORY"); server != "" && repo != "" {
		env.RepositoryURL = strings.TrimRight(server, "/") + "/" + repo
	}
	// Pull request runs check out a merge ref; the head branch is what users know.
	if head := lookup("GITHUB_HEAD_REF"); head != "" {
		env.Branch = head
	} else if strings.HasPrefix(lookup("GITHUB_REF"), "refs/heads/") {
		env.Branch = lookup("GITHUB_REF_NAME")
	}
	return env
}

// See https://docs.gitlab.com/ci/variables/predefined_variables/.
func gitLab(lookup LookupFunc) Environment {
	env := Environment{
		Kind:          KindGitLab,
		CommitHash:    lookup("CI_COMMIT_SHA"),
		RepositoryURL: lookup("CI_PROJECT_URL"),
	}
	if branch := lookup("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME"); branch != "" {
		env.Branch = branch
	} else if lookup("CI_COMMIT_TAG") == "" {
		env.Branch = lookup("CI_COMMIT_REF_NAME")
	}
	return env
}

// See https://support.atlassian.com/bitbucket-cloud/docs/variables-and-secrets/.
func bitbucket(lookup LookupFunc) Environment {
	return Environment{
		Kind:          KindBitbucket,
		CommitHash:    lookup("BITBUCKET_COMMIT"),
		Branch:        lookup("BITBUCKET_BRANCH"),
		RepositoryURL: lookup("BITBUCKET_GIT_HTTP_ORIGIN"),
	}
}
