package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fyrsmithlabs/reposcribe/internal/digest"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

// maxCodeFileSize matches the server's request body limit.
const maxCodeFileSize = 10 << 20

type summarizeFlags struct {
	owner    string
	repo     string
	path     string
	all      bool
	codeFile string
}

func newSummarizeCmd(configPath *string) *cobra.Command {
	var f summarizeFlags

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a repository, one file, or a code block",
		Long: `Summarize code and print the result as JSON.

Examples:
  # Every priority file of a repository
  reposcribe summarize --owner golang --repo go --all

  # One file
  reposcribe summarize --owner golang --repo go --path README.md

  # A local file or stdin as a raw code block
  reposcribe summarize --code-file main.go
  cat main.go | reposcribe summarize --code-file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *configPath, zapcore.AddSync(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.digester.Summarize(a.runContext(cmd.Context()), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&f.owner, "owner", "", "repository owner")
	cmd.Flags().StringVar(&f.repo, "repo", "", "repository name")
	cmd.Flags().StringVar(&f.path, "path", "", "summarize a single file at this path")
	cmd.Flags().BoolVar(&f.all, "all", false, "summarize every priority file")
	cmd.Flags().StringVar(&f.codeFile, "code-file", "", "summarize a local file as a code block (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("path", "all")
	cmd.MarkFlagsMutuallyExclusive("code-file", "owner")
	cmd.MarkFlagsRequiredTogether("owner", "repo")

	return cmd
}

// request turns the flags into a digest request.
func (f *summarizeFlags) request(cmd *cobra.Command) (digest.Request, error) {
	req := digest.Request{
		Owner:        f.owner,
		Repo:         f.repo,
		FilePath:     f.path,
		SummarizeAll: f.all,
	}

	switch f.codeFile {
	case "":
	case "-":
		data, err := readAllLimited(cmd.InOrStdin())
		if err != nil {
			return req, fmt.Errorf("failed to read stdin: %w", err)
		}
		req.CodeBlock = string(data)
	default:
		file, err := os.Open(f.codeFile)
		if err != nil {
			return req, fmt.Errorf("failed to open code file: %w", err)
		}
		defer file.Close()
		data, err := readAllLimited(file)
		if err != nil {
			return req, fmt.Errorf("failed to read code file: %w", err)
		}
		req.CodeBlock = string(data)
	}

	if _, err := req.Mode(); err != nil {
		return req, err
	}
	return req, nil
}

// readAllLimited reads r, failing once it exceeds maxCodeFileSize.
func readAllLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxCodeFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxCodeFileSize {
		return nil, fmt.Errorf("input exceeds %d bytes", maxCodeFileSize)
	}
	return data, nil
}
