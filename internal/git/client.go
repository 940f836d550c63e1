package git

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	crssh "golang.org/x/crypto/ssh"

	"github.com/hashicorp/go-hclog"

	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/config"
	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/files"
)

// Environment variables holding clone credentials.
const (
	EnvUsername       = "AEGISCAN_GIT_USERNAME"
	EnvToken          = "AEGISCAN_GIT_TOKEN"
	EnvSSHKeyPassword = "AEGISCAN_SSH_KEY_PASSWORD"
)

// Supported authentication types.
const (
	AuthNone     = "none"
	AuthHTTP     = "http"
	AuthSSHKey   = "ssh-key"
	AuthSSHAgent = "ssh-agent"
)

// Client clones repositories with a fixed authentication method.
type Client struct {
	logger      hclog.Logger
	auth        transport.AuthMethod
	timeout     time.Duration
	depth       int
	insecureTLS bool
}

// Credentials are the secrets and SSH host verification settings an Authenticator may need.
type Credentials struct {
	Username       string
	Token          string
	SSHKey         string
	SSHKeyPassword string
	// KnownHosts lists known_hosts files; empty means $SSH_KNOWN_HOSTS or the
	// user and system defaults.
	KnownHosts          []string
	InsecureSkipHostKey bool
}

// Authenticator defines an interface for different authentication methods.
type Authenticator interface {
	SetupAuth(creds Credentials, logger hclog.Logger) (transport.AuthMethod, error)
	ValidateConfig(creds Credentials) error
}

// NoAuthenticator is used for public repositories.
type NoAuthenticator struct{}

// SSHKeyAuthenticator provides SSH key-based authentication.
type SSHKeyAuthenticator struct{}

// SSHAgentAuthenticator provides SSH agent-based authentication.
type SSHAgentAuthenticator struct{}

// HTTPAuthenticator provides HTTP basic authentication.
type HTTPAuthenticator struct{}

func (NoAuthenticator) SetupAuth(Credentials, hclog.Logger) (transport.AuthMethod, error) {
	return nil, nil
}

func (NoAuthenticator) ValidateConfig(Credentials) error {
	return nil
}

// SetupAuth configures SSH key authentication.
func (s *SSHKeyAuthenticator) SetupAuth(creds Credentials, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up SSH key authentication")

	sshKeyPath, err := files.ExpandPath(creds.SSHKey)
	if err != nil {
		return nil, fmt.Errorf("failed to expand SSH key path %q: %w", creds.SSHKey, err)
	}

	auth, err := ssh.NewPublicKeysFromFile("git", sshKeyPath, creds.SSHKeyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}
	callback, err := hostKeyCallback(creds, logger)
	if err != nil {
		return nil, err
	}
	auth.HostKeyCallback = callback
	return auth, nil
}

// ValidateConfig validates the configuration for SSHKeyAuthenticator.
func (s *SSHKeyAuthenticator) ValidateConfig(creds Credentials) error {
	if creds.SSHKey == "" {
		return fmt.Errorf("%w: an SSH key path is required for ssh-key authentication", ErrMissingCredentials)
	}
	return nil
}

// SetupAuth configures SSH agent authentication.
func (s *SSHAgentAuthenticator) SetupAuth(creds Credentials, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up SSH agent authentication")

	auth, err := ssh.NewSSHAgentAuth("git")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SSH agent: %w", err)
	}
	callback, err := hostKeyCallback(creds, logger)
	if err != nil {
		return nil, err
	}
	auth.HostKeyCallback = callback
	return auth, nil
}

// ValidateConfig validates the configuration for SSHAgentAuthenticator.
func (s *SSHAgentAuthenticator) ValidateConfig(Credentials) error {
	return nil
}

// hostKeyCallback verifies SSH host keys against known_hosts files unless
// verification was switched off in the configuration.
func hostKeyCallback(creds Credentials, logger hclog.Logger) (crssh.HostKeyCallback, error) {
	if creds.InsecureSkipHostKey {
		logger.Warn("SSH host key verification is disabled")
		return crssh.InsecureIgnoreHostKey(), nil
	}

	callback, err := ssh.NewKnownHostsCallback(creds.KnownHosts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load known_hosts: %w", err)
	}
	return callback, nil
}

// SetupAuth configures HTTP basic authentication.
func (h *HTTPAuthenticator) SetupAuth(creds Credentials, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up HTTP authentication")

	return &http.BasicAuth{
		Username: creds.Username,
		Password: creds.Token,
	}, nil
}

// ValidateConfig validates the configuration for HTTPAuthenticator.
func (h *HTTPAuthenticator) ValidateConfig(creds Credentials) error {
	if creds.Username == "" {
		return fmt.Errorf("%w: %s is required for http authentication", ErrMissingCredentials, EnvUsername)
	}
	if creds.Token == "" {
		return fmt.Errorf("%w: %s is required for http authentication", ErrMissingCredentials, EnvToken)
	}
	return nil
}

// getAuthenticator returns the appropriate Authenticator based on the authentication type.
func getAuthenticator(authType string) (Authenticator, error) {
	switch authType {
	case "", AuthNone:
		return NoAuthenticator{}, nil
	case AuthSSHKey:
		return &SSHKeyAuthenticator{}, nil
	case AuthSSHAgent:
		return &SSHAgentAuthenticator{}, nil
	case AuthHTTP:
		return &HTTPAuthenticator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAuthType, authType)
	}
}

// credentialsFromEnv reads secrets from the environment.
func credentialsFromEnv(sshKey string) Credentials {
	return Credentials{
		Username:       os.Getenv(EnvUsername),
		Token:          os.Getenv(EnvToken),
		SSHKey:         sshKey,
		SSHKeyPassword: os.Getenv(EnvSSHKeyPassword),
	}
}

// New initializes a Git Client. Credentials come from the environment;
// sshKey is only used with ssh-key authentication.
func New(logger hclog.Logger, globalConfig *config.Config, authType, sshKey string) (*Client, error) {
	authenticator, err := getAuthenticator(authType)
	if err != nil {
		return nil, err
	}

	creds := credentialsFromEnv(sshKey)
	if globalConfig != nil {
		if knownHosts := globalConfig.GitClient.KnownHostsFile; knownHosts != "" {
			path, err := files.ExpandPath(knownHosts)
			if err != nil {
				return nil, fmt.Errorf("failed to expand known_hosts path %q: %w", knownHosts, err)
			}
			creds.KnownHosts = []string{path}
		}
		creds.InsecureSkipHostKey = config.GetBoolValue(globalConfig.GitClient, "InsecureSkipHostKey", false)
	}
	if err := authenticator.ValidateConfig(creds); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	auth, err := authenticator.SetupAuth(creds, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up Git authentication: %w", err)
	}

	insecure := false
	if globalConfig != nil {
		insecure = config.GetBoolValue(globalConfig.GitClient, "InsecureTLS", false)
	}

	return &Client{
		logger:      logger,
		auth:        auth,
		timeout:     config.GetGitTimeout(globalConfig),
		depth:       config.GetGitDepth(globalConfig),
		insecureTLS: insecure,
	}, nil
}
