package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
)

// GitHubGraphQLGateway is the GraphQL implementation of IssueSource. The label
// filter runs server side, and GraphQL issues never include pull requests.
type GitHubGraphQLGateway struct {
	graphqlClient *githubv4.Client
	owner         string
	repo          string
	label         string
	logger        *zap.Logger
}

// ideaIssuesQuery reads the first page of issues carrying the idea label.
type ideaIssuesQuery struct {
	Repository struct {
		Issues struct {
			Nodes []struct {
				Title     string
				Body      string
				CreatedAt githubv4.DateTime
				UpdatedAt githubv4.DateTime
				Labels    struct {
					Nodes []struct {
						Name string
					}
				} `graphql:"labels(first: 50)"`
			}
		} `graphql:"issues(first: 100, labels: $labels)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGraphQLGateway wraps httpClient so that non-2xx replies surface as
// FetchErrors carrying the status code.
func NewGitHubGraphQLGateway(httpClient *http.Client, owner, repo, label string, logger *zap.Logger) *GitHubGraphQLGateway {
	return &GitHubGraphQLGateway{
		graphqlClient: githubv4.NewClient(withStatusCheck(httpClient)),
		owner:         owner,
		repo:          repo,
		label:         label,
		logger:        logger,
	}
}

func (g *GitHubGraphQLGateway) ListIssues(ctx context.Context) ([]domain.Issue, error) {
	g.logger.Debug("Fetching issues using GraphQL API", zap.String("owner", g.owner), zap.String("repo", g.repo))
	variables := map[string]interface{}{
		"owner":  githubv4.String(g.owner),
		"name":   githubv4.String(g.repo),
		"labels": []githubv4.String{githubv4.String(g.label)},
	}
	var q ideaIssuesQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for issues: %w", classifyGraphQLError(err))
	}

	nodes := q.Repository.Issues.Nodes
	out := make([]domain.Issue, 0, len(nodes))
	for _, node := range nodes {
		labels := make([]string, 0, len(node.Labels.Nodes))
		for _, l := range node.Labels.Nodes {
			labels = append(labels, l.Name)
		}
		out = append(out, domain.Issue{
			Title:     node.Title,
			Body:      node.Body,
			Labels:    labels,
			CreatedAt: node.CreatedAt.Time,
			UpdatedAt: node.UpdatedAt.Time,
		})
	}
	g.logger.Debug("Completed fetching issues", zap.Int("count", len(out)))
	return out, nil
}

// classifyGraphQLError maps a githubv4 failure onto the fetch taxonomy.
// Errors reported inside a 200 reply carry no status code.
func classifyGraphQLError(err error) *domain.FetchError {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if isJSONError(err) {
		return &domain.FetchError{Kind: domain.KindParse, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &domain.FetchError{Kind: domain.KindNetwork, Err: err}
	}
	return &domain.FetchError{Kind: domain.KindHTTP, Err: err}
}

func withStatusCheck(c *http.Client) *http.Client {
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Transport: statusTransport{base: base},
		Timeout:   c.Timeout,
	}
}

// statusTransport turns non-2xx replies into FetchErrors before the GraphQL
// client flattens them into a plain string.
type statusTransport struct {
	base http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return nil, &domain.FetchError{
		Kind:   domain.KindHTTP,
		Status: resp.StatusCode,
		Reason: strings.TrimSpace(string(body)),
	}
}
