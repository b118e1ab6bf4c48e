// Package ghclient wraps the go-github client used as an authenticated
// fallback when unauthenticated raw-content downloads are rate-limited.
package ghclient

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v67/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

// Client wraps the go-github client.
type Client struct {
	gh            *github.Client
	authenticated bool
}

// New creates a GitHub client.
// Token resolution order: GITHUB_TOKEN, GH_TOKEN, gh CLI config, unauthenticated.
func New() *Client {
	token := getToken()

	var httpClient *http.Client
	authenticated := false

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
		authenticated = true
	}

	return &Client{
		gh:            github.NewClient(httpClient),
		authenticated: authenticated,
	}
}

// IsAuthenticated returns true if the client has a token.
func (c *Client) IsAuthenticated() bool {
	return c.authenticated
}

// GetContents fetches a file's content from a repository at a given ref.
func (c *Client) GetContents(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	fileContent, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get contents")
	}

	if fileContent == nil {
		return nil, errors.Errorf("%s is a directory, not a file", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode content")
	}

	return []byte(content), nil
}

// getToken attempts to get a GitHub token from various sources.
func getToken() string {
	// 1. GITHUB_TOKEN env var
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}

	// 2. GH_TOKEN env var (gh CLI compat)
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}

	// 3. Try gh CLI config
	if token := readGhToken(); token != "" {
		return token
	}

	// 4. Unauthenticated (60 req/hr)
	return ""
}

// ghHostsConfig represents the gh CLI hosts.yml config.
type ghHostsConfig map[string]struct {
	OAuthToken string `yaml:"oauth_token"`
}

// readGhToken reads the GitHub token from gh CLI config.
func readGhToken() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	hostsPath := filepath.Join(homeDir, ".config", "gh", "hosts.yml")
	if data, err := os.ReadFile(hostsPath); err == nil {
		var hosts ghHostsConfig
		if err := yaml.Unmarshal(data, &hosts); err == nil {
			if host, ok := hosts["github.com"]; ok && host.OAuthToken != "" {
				return host.OAuthToken
			}
		}
	}

	return ""
}

// ParseRawURL parses a raw.githubusercontent.com URL into its owner, repo,
// ref and file path components.
func ParseRawURL(rawURL string) (owner, repo, ref, path string, err error) {
	const prefix = "https://raw.githubusercontent.com/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", "", "", "", errors.Errorf("not a raw GitHub URL: %s", rawURL)
	}

	parts := strings.SplitN(strings.TrimPrefix(rawURL, prefix), "/", 4)
	if len(parts) < 4 {
		return "", "", "", "", errors.Errorf("malformed raw GitHub URL: %s", rawURL)
	}

	return parts[0], parts[1], parts[2], parts[3], nil
}
