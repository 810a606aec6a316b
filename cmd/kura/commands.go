package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/kura/internal/api"
	"github.com/kalambet/kura/internal/avatar"
	"github.com/kalambet/kura/internal/classify"
	"github.com/kalambet/kura/internal/config"
	"github.com/kalambet/kura/internal/github"
)

// generateCmd runs the full pipeline locally, without the server.
var generateCmd = &cobra.Command{
	Use:   "generate <owner/name>",
	Short: "Generate an avatar spec for a repository",
	Long: `Generate an avatar spec for a repository.

Examples:
  kura generate facebook/react
  kura generate facebook/react --variant 42
  kura generate https://github.com/golang/go`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		variant, _ := cmd.Flags().GetInt("variant")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		owner, name, err := api.ParseRepo(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		fetcher := github.NewWithBaseURLs(cfg.GitHub.APIBaseURL, cfg.GitHub.RawBaseURL)
		branch := fetcher.DefaultBranch(ctx, owner, name)

		readme, found := fetcher.FetchReadme(ctx, owner, name, branch)
		if !found {
			return fmt.Errorf("project documentation not found for %s/%s", owner, name)
		}

		manifests := fetcher.FetchManifests(ctx, owner, name, branch)
		profile := classify.Classify(manifests, readme)

		spec, err := avatar.Synthesize(profile, readme, owner, name, variant)
		if err != nil {
			printWarning("synthesis failed, using heuristic fallback: %v", err)
			spec = avatar.SynthesizeFallback(readme, name, variant)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	},
}

// classifyCmd prints the technology profile without synthesizing traits.
var classifyCmd = &cobra.Command{
	Use:   "classify <owner/name>",
	Short: "Classify a repository's technology profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		owner, name, err := api.ParseRepo(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		fetcher := github.NewWithBaseURLs(cfg.GitHub.APIBaseURL, cfg.GitHub.RawBaseURL)
		branch := fetcher.DefaultBranch(ctx, owner, name)
		readme, _ := fetcher.FetchReadme(ctx, owner, name, branch)
		manifests := fetcher.FetchManifests(ctx, owner, name, branch)

		profile := classify.Classify(manifests, readme)

		printStatus("Language", "%s", profile.Language)
		printStatus("Framework", "%s", profile.Framework)
		printStatus("Paradigm", "%s", profile.Paradigm)
		printStatus("Async", "%t", profile.AsyncPatterns)
		printStatus("Architecture", "%s", profile.Architecture)
		printStatus("Scale", "%s", profile.Scale)
		for key, value := range profile.Philosophy {
			printStatus("Philosophy."+key, "%s", value)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("variant", 0, "Variant number in [0,999]")
}
