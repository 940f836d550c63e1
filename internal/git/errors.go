package git

import "errors"

// Client setup errors
var (
	ErrUnsupportedAuthType = errors.New("unsupported authentication type")
	ErrMissingCredentials  = errors.New("missing credentials")
)

// Repository errors
var (
	ErrTargetExists   = errors.New("target folder already contains a repository")
	ErrNotARepository = errors.New("folder is not inside a git repository")
)
