// Package github is a minimal client for the pieces of the GitHub REST API
// the generator needs: repository metadata, the recursive git tree, and raw
// file contents. Failures are returned to the caller and treated as fatal
// upstream; the client never retries.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harrison/plugdex/internal/models"
)

const acceptHeader = "application/vnd.github.v3+json"

// Details is the summarized repository information returned by the
// repository endpoint.
type Details struct {
	Name            string   `json:"name"`
	Owner           Owner    `json:"owner"`
	HTMLURL         string   `json:"html_url"`
	Description     string   `json:"description"`
	DefaultBranch   string   `json:"default_branch"`
	StargazersCount int      `json:"stargazers_count"`
	PushedAt        string   `json:"pushed_at"`
	License         *License `json:"license"`
}

// Owner is the user or organization that owns a repository.
type Owner struct {
	Login string `json:"login"`
}

// License describes a repository's license. URL may be null for
// non-standard licenses.
type License struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TreeEntry is one path in a repository's git tree. Type is "blob" for
// files and "tree" for directories.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type treeResponse struct {
	Tree []TreeEntry `json:"tree"`
}

// Client calls the GitHub REST API.
type Client struct {
	httpClient *http.Client
	apiBaseURL string
	rawBaseURL string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the API and raw-content base URLs. Used by tests
// to point the client at a local server.
func WithBaseURLs(api, raw string) Option {
	return func(c *Client) {
		c.apiBaseURL = api
		c.rawBaseURL = raw
	}
}

// NewClient creates a Client. An empty token means unauthenticated requests.
func NewClient(timeout time.Duration, token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiBaseURL: "https://api.github.com",
		rawBaseURL: "https://raw.githubusercontent.com",
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RepoDetails fetches the main metadata for a repository.
func (c *Client) RepoDetails(ctx context.Context, key models.RepoKey) (*Details, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.apiBaseURL, key.Owner, key.Name)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("repository %s: %w", key, err)
	}

	var details Details
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("repository %s: decode response: %w", key, err)
	}

	return &details, nil
}

// RepoTree fetches the recursive file tree of a repository branch.
func (c *Client) RepoTree(ctx context.Context, key models.RepoKey, branch string) ([]TreeEntry, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.apiBaseURL, key.Owner, key.Name, branch)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("tree %s@%s: %w", key, branch, err)
	}

	var resp treeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("tree %s@%s: decode response: %w", key, branch, err)
	}

	return resp.Tree, nil
}

// RawFile downloads one file from a repository branch.
func (c *Client) RawFile(ctx context.Context, key models.RepoKey, branch, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBaseURL, key.Owner, key.Name, branch, path)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("raw file %s@%s/%s: %w", key, branch, path, err)
	}

	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
