// Reposcribe summarizes GitHub repositories with a language model.
//
// It aggregates a repository's priority files (READMEs, manifests, docs/)
// into one text blob and asks the configured generator for an overview, the
// key components, and the notable technical details.
//
// Usage:
//
//	# Serve the HTTP API on :5001
//	reposcribe serve
//
//	# Summarize a repository from the command line
//	reposcribe summarize --owner golang --repo go --all
//
//	# List the files that would be aggregated
//	reposcribe files --owner golang --repo go
//
// Configuration is read from ~/.config/reposcribe/config.yaml and
// REPOSCRIBE_* environment variables. See internal/config for details.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "reposcribe",
		Short: "Summarize GitHub repositories with a language model",
		Long: `reposcribe aggregates the priority files of a GitHub repository and
produces a three-part summary: an overview, the key components, and the
notable technical details.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/reposcribe/config.yaml)")

	root.AddCommand(
		newServeCmd(&configPath),
		newSummarizeCmd(&configPath),
		newFilesCmd(&configPath),
		newSearchCmd(&configPath),
		newVersionCmd(),
	)
	return root
}
