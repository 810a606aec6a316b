// Package github fetches the raw repository signals the engine consumes:
// README text and dependency-manifest contents. It is the engine's only
// external collaborator; all retrieval happens here, before classification
// begins.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultRawBaseURL = "https://raw.githubusercontent.com"

	// Raw README files can be large; manifests are small.
	maxFileSize = 2 << 20 // 2MB
)

// readmeBranches is the fixed branch search order (the repository's default
// branch is tried first when known).
var readmeBranches = []string{"main", "master", "HEAD"}

// readmeFiles is the fixed README filename search order.
var readmeFiles = []string{"README.md", "README.rst", "README.txt", "README"}

// ManifestFiles is the fixed set of dependency-manifest filenames fetched
// for classification.
var ManifestFiles = []string{
	"package.json",
	"requirements.txt",
	"Cargo.toml",
	"go.mod",
	"composer.json",
	"Gemfile",
}

// Client retrieves repository files from the GitHub REST API and the raw
// content host. Base URLs are injectable so tests can point it at a local
// httptest server.
type Client struct {
	apiBaseURL string
	rawBaseURL string
	httpClient *http.Client
}

// New creates a Client against the public GitHub endpoints.
func New() *Client {
	return NewWithBaseURLs(defaultAPIBaseURL, defaultRawBaseURL)
}

// NewWithBaseURLs creates a Client against custom endpoints (used by tests).
func NewWithBaseURLs(apiBaseURL, rawBaseURL string) *Client {
	return &Client{
		apiBaseURL: apiBaseURL,
		rawBaseURL: rawBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// DefaultBranch asks the API for the repository's default branch. Any
// failure degrades to "main"; branch discovery is an optimization for the
// README search order, never a hard requirement.
func (c *Client) DefaultBranch(ctx context.Context, owner, name string) string {
	url := fmt.Sprintf("%s/repos/%s/%s", c.apiBaseURL, owner, name)
	body, ok := c.get(ctx, url)
	if !ok {
		return "main"
	}

	var repo struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.Unmarshal(body, &repo); err != nil || repo.DefaultBranch == "" {
		return "main"
	}
	return repo.DefaultBranch
}

// FetchReadme tries every (branch, filename) combination in fixed order and
// returns the first README found. found is false once all combinations are
// exhausted.
func (c *Client) FetchReadme(ctx context.Context, owner, name, defaultBranch string) (text string, found bool) {
	branches := make([]string, 0, len(readmeBranches)+1)
	if defaultBranch != "" {
		branches = append(branches, defaultBranch)
	}
	for _, b := range readmeBranches {
		if b != defaultBranch {
			branches = append(branches, b)
		}
	}

	for _, branch := range branches {
		for _, file := range readmeFiles {
			if body, ok := c.fetchRaw(ctx, owner, name, branch, file); ok {
				return body, true
			}
		}
	}
	return "", false
}

// FetchManifests retrieves the fixed manifest set from the given branch in
// parallel. Missing or unreachable files are simply absent from the result;
// a partial map is still useful to the classifier.
func (c *Client) FetchManifests(ctx context.Context, owner, name, branch string) map[string]string {
	manifests := make(map[string]string, len(ManifestFiles))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, file := range ManifestFiles {
		g.Go(func() error {
			if body, ok := c.fetchRaw(gctx, owner, name, branch, file); ok {
				mu.Lock()
				manifests[file] = body
				mu.Unlock()
			}
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	return manifests
}

func (c *Client) fetchRaw(ctx context.Context, owner, name, branch, file string) (string, bool) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBaseURL, owner, name, branch, file)
	body, ok := c.get(ctx, url)
	if !ok {
		return "", false
	}
	return string(body), true
}

func (c *Client) get(ctx context.Context, url string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return nil, false
	}
	return body, true
}
