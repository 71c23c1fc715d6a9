package main

import (
	"fmt"

	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/fyrsmithlabs/reposcribe/internal/ignore"
	"github.com/fyrsmithlabs/reposcribe/internal/priority"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func newFilesCmd(configPath *string) *cobra.Command {
	var (
		owner      string
		repo       string
		root       string
		unfiltered bool
		asJSON     bool
		exclude    []string
	)

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the files a repository summary would read",
		Long: `Walk a repository depth-first and print the priority files in the
order they would be aggregated.

Examples:
  reposcribe files --owner golang --repo go
  reposcribe files --owner golang --repo go --unfiltered --root src/cmd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord := githost.Coordinate{Owner: owner, Repo: repo}
			if err := coord.Validate(); err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *configPath, zapcore.AddSync(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			if unfiltered {
				a.walker.Filter = githost.AcceptAll
			}
			if len(exclude) > 0 {
				a.walker.Exclude = ignore.New(append(a.cfg.GitHub.Exclude, exclude...))
			}

			paths, err := a.walker.ListFiles(a.runContext(cmd.Context()), coord, root)
			if err != nil {
				return err
			}
			if !unfiltered {
				paths = priority.Filter(paths)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), paths)
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "repository owner")
	cmd.Flags().StringVar(&repo, "repo", "", "repository name")
	cmd.Flags().StringVar(&root, "root", "", "start the walk at this directory")
	cmd.Flags().BoolVar(&unfiltered, "unfiltered", false, "list every file, not only priority files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "gitignore-style patterns to prune, in addition to github.exclude")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}
