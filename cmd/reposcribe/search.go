package main

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func newSearchCmd(configPath *string) *cobra.Command {
	var (
		q      githost.SearchQuery
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search GitHub repositories",
		Long: `Search repositories, sorted by stars unless --sort says otherwise.

Examples:
  reposcribe search "static site generator" --language go --min-stars 500
  reposcribe search cli --good-first-issues --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Query = strings.Join(args, " ")
			if _, _, err := q.Build(); err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *configPath, zapcore.AddSync(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.searcher.Search(a.runContext(cmd.Context()), q)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d repositories\n", result.GetTotal())
			for _, r := range result.Repositories {
				fmt.Fprintf(out, "%-40s %7d  %s\n", r.GetFullName(), r.GetStargazersCount(), r.GetDescription())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&q.MinStars, "min-stars", 0, "minimum stargazer count")
	cmd.Flags().StringVar(&q.Language, "language", "", "primary language")
	cmd.Flags().StringVar(&q.License, "license", "", "license key, e.g. mit")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "stars, forks, help-wanted-issues or updated (default stars)")
	cmd.Flags().BoolVar(&q.HasIssues, "has-issues", false, "only repositories with issues enabled")
	cmd.Flags().BoolVar(&q.HasWiki, "has-wiki", false, "only repositories with a wiki")
	cmd.Flags().BoolVar(&q.HasGoodFirstIssues, "good-first-issues", false, "only repositories labelled good-first-issue")
	cmd.Flags().BoolVar(&q.IsOpenSource, "open-source", false, "only repositories with the open-source topic")
	cmd.Flags().IntVar(&q.PerPage, "per-page", 0, "results per page (max 100)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw search result as JSON")

	return cmd
}
