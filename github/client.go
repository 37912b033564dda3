// Package github is a minimal GitHub REST v3 client covering the two calls
// the bundling pipeline needs: a flat recursive tree listing and raw blob
// retrieval.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hayeah/repobundle/repotree"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

var (
	// ErrNoEntries is returned when the listing comes back empty.
	ErrNoEntries = errors.New("repository listing is empty")
	// ErrTruncated is returned when the tree listing was truncated by the
	// API; a partial tree is never built.
	ErrTruncated = errors.New("repository listing truncated by API")
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Client talks to the GitHub API. Token is optional; when set it is sent as
// a bearer credential. The token's lifecycle is owned by the caller — the
// client holds whatever value it was configured with.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient constructs a Client against the public API.
func NewClient(token string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logger,
	}
}

// treeResponse is the git/trees payload.
type treeResponse struct {
	SHA       string      `json:"sha"`
	Truncated bool        `json:"truncated"`
	Tree      []treeEntry `json:"tree"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	URL  string `json:"url"`
}

// ListEntries returns the flat recursive listing of the repository at the
// given revision. When subpath is non-empty, only entries under it are
// returned, with the subpath prefix stripped. The listing is failed fast
// when empty or truncated; no partial tree escapes.
func (c *Client) ListEntries(ctx context.Context, owner, repo, ref, subpath string) ([]repotree.Entry, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.baseURL(), owner, repo, ref)

	body, _, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("list %s/%s@%s: %w", owner, repo, ref, err)
	}

	var tree treeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, fmt.Errorf("list %s/%s@%s: decode: %w", owner, repo, ref, err)
	}
	if tree.Truncated {
		return nil, fmt.Errorf("list %s/%s@%s: %w", owner, repo, ref, ErrTruncated)
	}

	prefix := strings.Trim(subpath, "/")
	if prefix != "" {
		prefix += "/"
	}

	entries := make([]repotree.Entry, 0, len(tree.Tree))
	for _, item := range tree.Tree {
		path := item.Path
		if prefix != "" {
			if !strings.HasPrefix(path, prefix) {
				continue
			}
			path = strings.TrimPrefix(path, prefix)
		}
		if path == "" {
			continue
		}

		kind := repotree.KindBlob
		if item.Type == "tree" {
			kind = repotree.KindTree
		}
		entries = append(entries, repotree.Entry{
			Path: path,
			Kind: kind,
			Ref:  repotree.ContentRef{SHA: item.SHA, URL: item.URL},
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("list %s/%s@%s: %w", owner, repo, ref, ErrNoEntries)
	}

	if c.Logger != nil {
		c.Logger.Debug("listed repository tree",
			"owner", owner, "repo", repo, "ref", ref, "entries", len(entries))
	}
	return entries, nil
}

// FetchContent retrieves a blob's raw bytes by its content ref's URL.
func (c *Client) FetchContent(ctx context.Context, ref repotree.ContentRef) ([]byte, string, error) {
	if ref.URL == "" {
		return nil, "", fmt.Errorf("blob %s: empty fetch address", ref.SHA)
	}

	body, contentType, err := c.get(ctx, ref.URL, "application/vnd.github.raw+json")
	if err != nil {
		return nil, "", fmt.Errorf("blob %s: %w", ref.SHA, err)
	}
	return body, contentType, nil
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, "", &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return DefaultBaseURL
}
