// Package api is the request-serving boundary: route dispatch, request
// parsing, rate limiting, caching, and the response envelope around the
// synthesis engine.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/kalambet/kura/internal/avatar"
	"github.com/kalambet/kura/internal/cache"
	"github.com/kalambet/kura/internal/classify"
	"github.com/kalambet/kura/internal/ratelimit"
	"github.com/kalambet/kura/internal/storage"
)

const maxGenerateBodySize = 64 << 10 // 64KB

// Fetcher retrieves raw repository files. Satisfied by *github.Client;
// stubbed in tests.
type Fetcher interface {
	DefaultBranch(ctx context.Context, owner, name string) string
	FetchReadme(ctx context.Context, owner, name, defaultBranch string) (text string, found bool)
	FetchManifests(ctx context.Context, owner, name, branch string) map[string]string
}

// GenerationStore records synthesized specs. Satisfied by *storage.Store.
type GenerationStore interface {
	SaveGeneration(g storage.Generation) error
	GetStats() (storage.Stats, error)
	RecentGenerations(limit int) ([]storage.Generation, error)
}

// AppDeps holds dependencies for the HTTP handler. Cache and Limiter are
// owned here — the engine itself is pure and never sees them.
type AppDeps struct {
	Fetcher Fetcher
	Cache   *cache.Cache
	Limiter *ratelimit.Limiter
	Store   GenerationStore // optional; if nil, history recording is skipped
	Logger  *slog.Logger
}

type GenerateRequest struct {
	Repo    string `json:"repo"`
	Variant int    `json:"variant"`
}

type GenerateResponse struct {
	OK     bool            `json:"ok"`
	Params json.RawMessage `json:"params"`
	Seed   string          `json:"seed"`
	Cached bool            `json:"cached"`
	Embed  string          `json:"embed"`
}

type handler struct {
	deps   AppDeps
	logger *slog.Logger
	group  singleflight.Group
}

// NewHandler builds the service router.
func NewHandler(deps AppDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{deps: deps, logger: logger}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.handleRoot)
		r.Post("/generate", h.handleGenerate)
		r.Get("/recent", h.handleRecent)
		r.Get("/stats", h.handleStats)
	})
	return r
}

func (h *handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Kura API - Repository Spirit Visualization",
	})
}

var githubURLRe = regexp.MustCompile(`github\.com/([^/]+/[^/?#]+)`)

// ParseRepo normalizes a repository reference — either "owner/name" or a
// github.com URL — into its owner and name parts.
func ParseRepo(repo string) (owner, name string, err error) {
	repo = strings.TrimSpace(repo)
	if strings.Contains(repo, "github.com") {
		m := githubURLRe.FindStringSubmatch(repo)
		if m != nil {
			repo = strings.TrimSuffix(m[1], ".git")
		}
	}

	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("use format: owner/name")
	}
	return owner, name, nil
}

// generated pairs a finished spec with how it was produced, for history
// recording and the singleflight round trip.
type generated struct {
	spec     avatar.Spec
	fallback bool
}

func (h *handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxGenerateBodySize)
	defer r.Body.Close()

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return
	}

	if !h.deps.Limiter.Allow(clientKey(r)) {
		httpError(w, http.StatusTooManyRequests, "rate_limit_error",
			"rate limit exceeded, please wait a moment before rolling again")
		return
	}

	owner, name, err := ParseRepo(req.Repo)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
		return
	}
	variant := clampVariant(req.Variant)

	repo := owner + "/" + name
	cacheKey := fmt.Sprintf("%s:%d", repo, variant)
	embed := embedMarkdown(baseURL(r), repo, variant)

	if specJSON, ok := h.deps.Cache.Get(cacheKey); ok {
		h.respond(w, specJSON, true, embed)
		return
	}

	// Dedupe concurrent requests for the same key; recomputation is
	// idempotent, so this is an optimization, not a correctness need.
	v, err, _ := h.group.Do(cacheKey, func() (any, error) {
		return h.generate(r.Context(), owner, name, variant)
	})
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "%v", err)
		return
	}
	gen := v.(generated)

	specJSON, err := json.Marshal(gen.spec)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "failed to encode spec: %v", err)
		return
	}

	h.record(repo, variant, gen, string(specJSON))
	h.deps.Cache.Set(cacheKey, specJSON)
	h.respond(w, specJSON, false, embed)
}

// generate runs the full pipeline: fetch, classify, synthesize, with the
// heuristic fallback covering any blend failure.
func (h *handler) generate(ctx context.Context, owner, name string, variant int) (generated, error) {
	branch := h.deps.Fetcher.DefaultBranch(ctx, owner, name)

	readme, found := h.deps.Fetcher.FetchReadme(ctx, owner, name, branch)
	if !found {
		return generated{}, fmt.Errorf("project documentation not found")
	}

	manifests := h.deps.Fetcher.FetchManifests(ctx, owner, name, branch)
	profile := classify.Classify(manifests, readme)
	h.logger.Info("classified repository",
		"repo", owner+"/"+name,
		"language", profile.Language,
		"framework", profile.Framework,
		"architecture", profile.Architecture,
		"scale", profile.Scale)

	spec, err := avatar.Synthesize(profile, readme, owner, name, variant)
	if err != nil {
		h.logger.Warn("synthesis failed, using heuristic fallback",
			"repo", owner+"/"+name, "error", err)
		return generated{spec: avatar.SynthesizeFallback(readme, name, variant), fallback: true}, nil
	}
	return generated{spec: spec}, nil
}

func (h *handler) record(repo string, variant int, gen generated, specJSON string) {
	if h.deps.Store == nil {
		return
	}
	err := h.deps.Store.SaveGeneration(storage.Generation{
		ID:        uuid.New().String(),
		Repo:      repo,
		Variant:   variant,
		Seed:      gen.spec.Seed,
		Fallback:  gen.fallback,
		SpecJSON:  specJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to record generation", "repo", repo, "error", err)
	}
}

func (h *handler) respond(w http.ResponseWriter, specJSON []byte, cached bool, embed string) {
	var seedOnly struct {
		Seed string `json:"seed"`
	}
	_ = json.Unmarshal(specJSON, &seedOnly)

	writeJSON(w, http.StatusOK, GenerateResponse{
		OK:     true,
		Params: specJSON,
		Seed:   seedOnly.Seed,
		Cached: cached,
		Embed:  embed,
	})
}

func (h *handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		writeJSON(w, http.StatusOK, []storage.Generation{})
		return
	}
	gens, err := h.deps.Store.RecentGenerations(20)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "failed to list generations: %v", err)
		return
	}
	if gens == nil {
		gens = []storage.Generation{}
	}
	writeJSON(w, http.StatusOK, gens)
}

func (h *handler) handleStats(w http.ResponseWriter, _ *http.Request) {
	if h.deps.Store == nil {
		writeJSON(w, http.StatusOK, storage.Stats{})
		return
	}
	stats, err := h.deps.Store.GetStats()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "failed to read stats: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// clientKey identifies the caller for rate limiting: the first
// X-Forwarded-For hop when present, else the remote address host.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// baseURL derives the externally visible base for embed links from the
// Origin or Referer header, falling back to the Host header.
func baseURL(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return strings.TrimRight(origin, "/")
	}
	if referer := r.Header.Get("Referer"); referer != "" {
		return strings.TrimRight(referer, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func embedMarkdown(base, repo string, variant int) string {
	return fmt.Sprintf("![Glowy Critter](%s/api/avatar/%s?v=%d)", base, repo, variant)
}

func clampVariant(variant int) int {
	if variant < 0 {
		return 0
	}
	if variant > 999 {
		return 999
	}
	return variant
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
