//go:build integration

// Package integration exercises the aggregation pipeline against the live
// GitHub API. Run with: go test -tags integration ./internal/integration/...
package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fyrsmithlabs/reposcribe/internal/aggregate"
	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var helloWorld = githost.Coordinate{Owner: "octocat", Repo: "Hello-World"}

func newPipeline(t *testing.T) *aggregate.Pipeline {
	t.Helper()

	client, err := githost.NewClient(context.Background(), config.GitHubConfig{
		Token: config.Secret(os.Getenv("GITHUB_TOKEN")),
	})
	require.NoError(t, err)

	logger := logging.NewNop()
	return aggregate.New(githost.NewFetcher(client, logger), githost.NewWalker(client, logger), aggregate.Options{
		SortPaths: true,
		Logger:    logger,
	})
}

func TestAggregate_LiveReadme(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	blob, err := newPipeline(t).Aggregate(ctx, helloWorld, []string{"README"})
	require.NoError(t, err)

	assert.Equal(t, []string{"README"}, blob.Files)
	assert.True(t, strings.HasPrefix(blob.Text, "\n\n// File: README\n"), blob.Text)
	assert.Contains(t, blob.Text, "Hello World")
}

func TestAggregate_LiveMissingRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := newPipeline(t).AggregateRepository(ctx, githost.Coordinate{Owner: "octocat", Repo: "this-repository-does-not-exist-7f3a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
