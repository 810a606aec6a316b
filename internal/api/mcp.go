package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/kura/internal/avatar"
	"github.com/kalambet/kura/internal/classify"
	"github.com/kalambet/kura/internal/storage"
)

// MCPDeps holds dependencies for the MCP server. It shares the fetcher and
// storage with the HTTP handler but bypasses cache and rate limiting —
// stdio clients are local and trusted.
type MCPDeps struct {
	Fetcher Fetcher
	Store   GenerationStore // optional; if nil, history recording is skipped
}

// NewMCPServer creates an MCP server exposing avatar generation to agent
// clients over stdio.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"kura",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("kura — deterministic avatar specs for public source-code repositories."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_avatar",
			mcp.WithDescription("Generate the deterministic avatar spec for a public GitHub repository."),
			mcp.WithString("repo", mcp.Description("Repository as owner/name or a github.com URL"), mcp.Required()),
			mcp.WithNumber("variant", mcp.Description("Variant number in [0,999] (default 0)")),
		),
		mcpGenerateAvatar(deps),
	)

	s.AddTool(
		mcp.NewTool("classify_repository",
			mcp.WithDescription("Classify a public GitHub repository's technology profile from its manifests and README."),
			mcp.WithString("repo", mcp.Description("Repository as owner/name or a github.com URL"), mcp.Required()),
		),
		mcpClassifyRepository(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"kura://recent",
			"Recent Generations",
			mcp.WithResourceDescription("Last 10 generated avatar specs (repo, variant, seed)"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpGenerateAvatar(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repoArg, err := req.RequireString("repo")
		if err != nil {
			return mcpError("repo is required"), nil
		}
		variant := clampVariant(req.GetInt("variant", 0))

		owner, name, err := ParseRepo(repoArg)
		if err != nil {
			return mcpError(fmt.Sprintf("invalid repo: %v", err)), nil
		}

		branch := deps.Fetcher.DefaultBranch(ctx, owner, name)
		readme, found := deps.Fetcher.FetchReadme(ctx, owner, name, branch)
		if !found {
			return mcpError("project documentation not found"), nil
		}

		manifests := deps.Fetcher.FetchManifests(ctx, owner, name, branch)
		profile := classify.Classify(manifests, readme)

		fallback := false
		spec, err := avatar.Synthesize(profile, readme, owner, name, variant)
		if err != nil {
			spec = avatar.SynthesizeFallback(readme, name, variant)
			fallback = true
		}

		b, err := json.Marshal(spec)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal spec: %v", err)), nil
		}

		if deps.Store != nil {
			_ = deps.Store.SaveGeneration(storage.Generation{
				ID:        uuid.New().String(),
				Repo:      owner + "/" + name,
				Variant:   variant,
				Seed:      spec.Seed,
				Fallback:  fallback,
				SpecJSON:  string(b),
				CreatedAt: time.Now().UTC(),
			})
		}

		return mcpText(string(b)), nil
	}
}

func mcpClassifyRepository(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repoArg, err := req.RequireString("repo")
		if err != nil {
			return mcpError("repo is required"), nil
		}

		owner, name, err := ParseRepo(repoArg)
		if err != nil {
			return mcpError(fmt.Sprintf("invalid repo: %v", err)), nil
		}

		branch := deps.Fetcher.DefaultBranch(ctx, owner, name)
		readme, _ := deps.Fetcher.FetchReadme(ctx, owner, name, branch)
		manifests := deps.Fetcher.FetchManifests(ctx, owner, name, branch)

		profile := classify.Classify(manifests, readme)

		b, err := json.Marshal(map[string]any{
			"language":       profile.Language,
			"framework":      profile.Framework,
			"paradigm":       profile.Paradigm,
			"async_patterns": profile.AsyncPatterns,
			"architecture":   profile.Architecture,
			"scale":          profile.Scale,
			"philosophy":     profile.Philosophy,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}

		return mcpText(string(b)), nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text := "[]"
		if deps.Store != nil {
			gens, err := deps.Store.RecentGenerations(10)
			if err != nil {
				return nil, fmt.Errorf("failed to get recent generations: %w", err)
			}

			type genSummary struct {
				Repo      string `json:"repo"`
				Variant   int    `json:"variant"`
				Seed      string `json:"seed"`
				Fallback  bool   `json:"fallback"`
				CreatedAt string `json:"created_at"`
			}

			summaries := make([]genSummary, len(gens))
			for i, g := range gens {
				summaries[i] = genSummary{
					Repo:      g.Repo,
					Variant:   g.Variant,
					Seed:      g.Seed,
					Fallback:  g.Fallback,
					CreatedAt: g.CreatedAt.Format(time.RFC3339),
				}
			}

			b, err := json.Marshal(summaries)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal generations: %w", err)
			}
			text = string(b)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
