package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/naka-gawa/idealab/internal/config"
	"github.com/naka-gawa/idealab/internal/gateway"
	"github.com/naka-gawa/idealab/internal/usecase"
	"go.uber.org/zap"
)

// newBoard builds the idea board on the configured GitHub API.
func newBoard(c *config.Config, log *zap.Logger) (*usecase.Board, error) {
	httpClient, err := gateway.NewGitHubHTTPClient(c.GitHub.Token, c.HTTP.Timeout, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	var source gateway.IssueSource
	if c.GitHub.API == "graphql" {
		source = gateway.NewGitHubGraphQLGateway(httpClient, c.GitHub.Owner, c.GitHub.Repo, c.Board.Label, log)
	} else {
		source = gateway.NewGitHubGateway(httpClient, c.GitHub.Owner, c.GitHub.Repo, log)
	}
	return usecase.NewBoard(source, c.Board.Label, log), nil
}

// newGallery builds the labs gallery. With labs.watch set and a file catalog,
// the catalog is cached and reloaded on change; the returned stop func ends
// the watcher and is never nil.
func newGallery(ctx context.Context, c *config.Config, client *http.Client, log *zap.Logger) (*usecase.Gallery, func(), error) {
	if c.Labs.Watch && isFileCatalog(c.Labs.Catalog) {
		watched, err := gateway.NewWatchedCatalog(c.Labs.Catalog, log)
		if err != nil {
			return nil, nil, err
		}
		if err := watched.Start(ctx); err != nil {
			watched.Stop()
			return nil, nil, err
		}
		return usecase.NewGallery(watched, log), watched.Stop, nil
	}
	source := gateway.NewCatalogSource(c.Labs.Catalog, c.Labs.Molecules, client, log)
	return usecase.NewGallery(source, log), func() {}, nil
}

func isFileCatalog(location string) bool {
	return location != "" && !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://")
}

// newIntake builds the intake flow, adding the Slack notifier when configured.
func newIntake(c *config.Config, client *http.Client, log *zap.Logger, opts ...usecase.IntakeOption) *usecase.Intake {
	poster := gateway.NewWebhookGateway(c.Intake.WebhookURL, client, log)
	opts = append([]usecase.IntakeOption{usecase.WithMinDwell(c.Intake.MinDwell)}, opts...)
	if c.Intake.SlackWebhookURL != "" {
		opts = append(opts, usecase.WithNotifier(gateway.NewSlackNotifier(c.Intake.SlackWebhookURL, client)))
	}
	return usecase.NewIntake(poster, c.Intake.Source, log, opts...)
}
