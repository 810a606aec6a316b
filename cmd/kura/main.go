package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "kura",
	Short: "Deterministic avatar specs for public source-code repositories",
	Long: `kura turns a repository identifier into a deterministic, visually
expressive avatar spec: species, palette, motion, pattern, and glyph,
all derived from the repository's technology profile and a per-variant
seed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.AddCommand(startCmd, stopCmd, statusCmd, generateCmd, classifyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
