package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeGitHub serves both the REST API shape (/repos/...) and the raw
// content shape (/owner/name/branch/file) from a single mux.
type fakeGitHub struct {
	mu       sync.Mutex
	requests []string

	defaultBranch string
	rawFiles      map[string]string // "branch/file" -> contents
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		f.record(r.URL.Path)
		if f.defaultBranch == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"default_branch": %q}`, f.defaultBranch)
	})
	mux.HandleFunc("/acme/widgets/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r.URL.Path)
		key := r.URL.Path[len("/acme/widgets/"):]
		body, ok := f.rawFiles[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})
	return mux
}

func (f *fakeGitHub) record(path string) {
	f.mu.Lock()
	f.requests = append(f.requests, path)
	f.mu.Unlock()
}

func newTestClient(t *testing.T, fake *fakeGitHub) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewWithBaseURLs(srv.URL, srv.URL)
}

func TestDefaultBranch(t *testing.T) {
	fake := &fakeGitHub{defaultBranch: "develop"}
	c := newTestClient(t, fake)

	if got := c.DefaultBranch(context.Background(), "acme", "widgets"); got != "develop" {
		t.Errorf("DefaultBranch = %q, want develop", got)
	}
}

func TestDefaultBranch_DegradesToMain(t *testing.T) {
	fake := &fakeGitHub{} // API returns 404
	c := newTestClient(t, fake)

	if got := c.DefaultBranch(context.Background(), "acme", "widgets"); got != "main" {
		t.Errorf("DefaultBranch = %q, want main on API failure", got)
	}
}

func TestFetchReadme_DefaultBranchFirst(t *testing.T) {
	fake := &fakeGitHub{rawFiles: map[string]string{
		"develop/README.md": "# from develop",
		"main/README.md":    "# from main",
	}}
	c := newTestClient(t, fake)

	text, found := c.FetchReadme(context.Background(), "acme", "widgets", "develop")
	if !found {
		t.Fatal("readme not found")
	}
	if text != "# from develop" {
		t.Errorf("readme = %q, want the default-branch copy", text)
	}
}

func TestFetchReadme_FallsBackThroughBranchesAndNames(t *testing.T) {
	fake := &fakeGitHub{rawFiles: map[string]string{
		"master/README.rst": "restructured",
	}}
	c := newTestClient(t, fake)

	text, found := c.FetchReadme(context.Background(), "acme", "widgets", "main")
	if !found {
		t.Fatal("readme not found despite master/README.rst existing")
	}
	if text != "restructured" {
		t.Errorf("readme = %q, want restructured", text)
	}
}

func TestFetchReadme_NotFound(t *testing.T) {
	fake := &fakeGitHub{}
	c := newTestClient(t, fake)

	if _, found := c.FetchReadme(context.Background(), "acme", "widgets", "main"); found {
		t.Error("found = true, want false when no README exists anywhere")
	}
}

func TestFetchReadme_NoDuplicateBranchProbes(t *testing.T) {
	fake := &fakeGitHub{}
	c := newTestClient(t, fake)

	c.FetchReadme(context.Background(), "acme", "widgets", "main")

	// "main" appears both as the default branch and in the fixed list;
	// it must only be probed once per filename.
	fake.mu.Lock()
	defer fake.mu.Unlock()
	seen := make(map[string]int)
	for _, path := range fake.requests {
		seen[path]++
	}
	for path, n := range seen {
		if n > 1 {
			t.Errorf("path %s probed %d times", path, n)
		}
	}
}

func TestFetchManifests_PartialResult(t *testing.T) {
	fake := &fakeGitHub{rawFiles: map[string]string{
		"main/package.json": `{"dependencies": {}}`,
		"main/go.mod":       "module example.com/x",
	}}
	c := newTestClient(t, fake)

	manifests := c.FetchManifests(context.Background(), "acme", "widgets", "main")

	if len(manifests) != 2 {
		t.Fatalf("got %d manifests, want 2: %v", len(manifests), manifests)
	}
	if manifests["package.json"] != `{"dependencies": {}}` {
		t.Errorf("package.json = %q", manifests["package.json"])
	}
	if manifests["go.mod"] != "module example.com/x" {
		t.Errorf("go.mod = %q", manifests["go.mod"])
	}
	if _, ok := manifests["Cargo.toml"]; ok {
		t.Error("missing manifest must be absent, not empty")
	}
}

func TestFetchManifests_AllMissing(t *testing.T) {
	fake := &fakeGitHub{}
	c := newTestClient(t, fake)

	manifests := c.FetchManifests(context.Background(), "acme", "widgets", "main")
	if len(manifests) != 0 {
		t.Errorf("got %d manifests, want none", len(manifests))
	}
}
