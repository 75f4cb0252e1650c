// Package gateway provides the data source adapters behind every page:
// GitHub issues for the idea board (REST or GraphQL), the molecule catalog
// for the labs gallery and the intake webhook.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/idealab/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// issuesPerPage is the only page the board ever reads.
const issuesPerPage = 100

// IssueSource defines the behavior of a gateway for fetching the idea board's issues.
type IssueSource interface {
	ListIssues(ctx context.Context) ([]domain.Issue, error)
}

// GitHubGateway is the REST implementation of IssueSource.
type GitHubGateway struct {
	restClient *github.Client
	owner      string
	repo       string
	logger     *zap.Logger
}

// NewGitHubHTTPClient builds the transport stack shared by the REST and
// GraphQL gateways: an optional oauth2 token over the rate-limit waiter.
// Secondary rate limits are reported, not waited out.
func NewGitHubHTTPClient(token string, timeout time.Duration, logger *zap.Logger) (*http.Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(0, func(*github_ratelimit.CallbackContext) {
		logger.Warn("GitHub secondary rate limit hit, not retrying")
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	if timeout <= 0 {
		timeout = defaultExternalHTTPTimeout
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(httpClient *http.Client, owner, repo string, logger *zap.Logger) *GitHubGateway {
	return &GitHubGateway{
		restClient: github.NewClient(httpClient),
		owner:      owner,
		repo:       repo,
		logger:     logger,
	}
}

// ListIssues reads the first page of issues in any state. Pull requests are
// returned too, flagged, so normalization can drop them.
func (g *GitHubGateway) ListIssues(ctx context.Context) ([]domain.Issue, error) {
	g.logger.Debug("Fetching issues using REST API", zap.String("owner", g.owner), zap.String("repo", g.repo))
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: issuesPerPage},
	}
	issues, _, err := g.restClient.Issues.ListByRepo(ctx, g.owner, g.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues with REST API: %w", classifyGitHubError(err))
	}

	out := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		labels := make([]string, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			labels = append(labels, l.GetName())
		}
		out = append(out, domain.Issue{
			Title:         issue.GetTitle(),
			Body:          issue.GetBody(),
			Labels:        labels,
			CreatedAt:     issue.GetCreatedAt().Time,
			UpdatedAt:     issue.GetUpdatedAt().Time,
			IsPullRequest: issue.IsPullRequest(),
		})
	}
	g.logger.Debug("Completed fetching issues", zap.Int("count", len(out)))
	return out, nil
}

func classifyGitHubError(err error) *domain.FetchError {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return &domain.FetchError{Kind: domain.KindHTTP, Status: errResp.Response.StatusCode, Reason: errResp.Message, Err: err}
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &domain.FetchError{Kind: domain.KindHTTP, Status: rateErr.Response.StatusCode, Reason: rateErr.Message, Err: err}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return &domain.FetchError{Kind: domain.KindHTTP, Status: abuseErr.Response.StatusCode, Reason: abuseErr.Message, Err: err}
	}
	if isJSONError(err) {
		return &domain.FetchError{Kind: domain.KindParse, Err: err}
	}
	return &domain.FetchError{Kind: domain.KindNetwork, Err: err}
}

func isJSONError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
