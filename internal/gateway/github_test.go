package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	gateway := &GitHubGateway{
		restClient: restClient,
		owner:      "elevaistrategies",
		repo:       "lab-intake",
		logger:     zap.NewNop(),
	}
	return gateway, server
}

// setupTestGraphQLGateway points the GraphQL client at a mock server.
func setupTestGraphQLGateway(t *testing.T, handler http.Handler) (*GitHubGraphQLGateway, *httptest.Server) {
	server := httptest.NewServer(handler)
	gateway := &GitHubGraphQLGateway{
		graphqlClient: githubv4.NewEnterpriseClient(server.URL, withStatusCheck(server.Client())),
		owner:         "elevaistrategies",
		repo:          "lab-intake",
		label:         "idea",
		logger:        zap.NewNop(),
	}
	return gateway, server
}

func TestGitHubGateway_ListIssues(t *testing.T) {
	testCases := []struct {
		name        string
		handlerFunc func(w http.ResponseWriter, r *http.Request)
		expected    []domain.Issue
		expectKind  *domain.FetchKind
		expectedMsg string
	}{
		{
			name: "happy path - issues and pull requests are both returned",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/elevaistrategies/lab-intake/issues", r.URL.Path)
				assert.Equal(t, "all", r.URL.Query().Get("state"))
				assert.Equal(t, "100", r.URL.Query().Get("per_page"))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `[
					{"title":"Idea: Foo","body":" hello ","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-02-01T00:00:00Z",
					 "labels":[{"name":"idea"},{"name":"status:building"},{"name":"cat:Tools"}]},
					{"title":"Bump deps","created_at":"2024-01-02T00:00:00Z","updated_at":"2024-01-03T00:00:00Z",
					 "labels":[{"name":"idea"}],"pull_request":{"url":"https://api.github.com/x"}}
				]`)
			},
			expected: []domain.Issue{
				{
					Title:     "Idea: Foo",
					Body:      " hello ",
					Labels:    []string{"idea", "status:building", "cat:Tools"},
					CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					UpdatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				},
				{
					Title:         "Bump deps",
					Labels:        []string{"idea"},
					CreatedAt:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
					UpdatedAt:     time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
					IsPullRequest: true,
				},
			},
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectKind:  kindPtr(domain.KindHTTP),
			expectedMsg: "failed to list issues with REST API",
		},
		{
			name: "error case - malformed JSON",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `[{"title": `)
			},
			expectKind:  kindPtr(domain.KindParse),
			expectedMsg: "failed to list issues with REST API",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			issues, err := gateway.ListIssues(context.Background())
			if tc.expectKind != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedMsg)
				assert.True(t, domain.IsFetchKind(err, *tc.expectKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Len(t, issues, len(tc.expected))
			for i := range tc.expected {
				assert.Equal(t, tc.expected[i].Title, issues[i].Title)
				assert.Equal(t, tc.expected[i].Body, issues[i].Body)
				assert.Equal(t, tc.expected[i].Labels, issues[i].Labels)
				assert.True(t, tc.expected[i].CreatedAt.Equal(issues[i].CreatedAt))
				assert.True(t, tc.expected[i].UpdatedAt.Equal(issues[i].UpdatedAt))
				assert.Equal(t, tc.expected[i].IsPullRequest, issues[i].IsPullRequest)
			}
		})
	}
}

func TestGitHubGateway_ListIssues_HTTPStatus(t *testing.T) {
	gateway, server := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}))
	defer server.Close()

	_, err := gateway.ListIssues(context.Background())
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Equal(t, "Not Found", fe.Reason)
}

func TestGitHubGraphQLGateway_ListIssues(t *testing.T) {
	testCases := []struct {
		name         string
		status       int
		responseBody string
		expected     []domain.Issue
		expectKind   *domain.FetchKind
		expectStatus int
		expectText   string
	}{
		{
			name:   "happy path",
			status: http.StatusOK,
			responseBody: `{"data":{"repository":{"issues":{"nodes":[
				{"title":"Idea: Foo","body":"b","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-05T00:00:00Z",
				 "labels":{"nodes":[{"name":"idea"},{"name":"cat:Tools"}]}}]}}}}`,
			expected: []domain.Issue{{
				Title:     "Idea: Foo",
				Body:      "b",
				Labels:    []string{"idea", "cat:Tools"},
				CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			}},
		},
		{
			name:         "error case - GraphQL errors in a 200 reply",
			status:       http.StatusOK,
			responseBody: `{"errors":[{"message":"Something went wrong"}]}`,
			expectKind:   kindPtr(domain.KindHTTP),
			expectText:   "Something went wrong",
		},
		{
			name:         "error case - non-2xx status",
			status:       http.StatusBadGateway,
			responseBody: `upstream down`,
			expectKind:   kindPtr(domain.KindHTTP),
			expectStatus: http.StatusBadGateway,
		},
		{
			name:         "error case - malformed JSON",
			status:       http.StatusOK,
			responseBody: `{"data":`,
			expectKind:   kindPtr(domain.KindParse),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), `"labels":["idea"]`)
				assert.Contains(t, string(body), `"owner":"elevaistrategies"`)

				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGraphQLGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			issues, err := gateway.ListIssues(context.Background())
			if tc.expectKind != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to execute GraphQL query")
				var fe *domain.FetchError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, *tc.expectKind, fe.Kind)
				assert.Equal(t, tc.expectStatus, fe.Status)
				assert.Contains(t, err.Error(), tc.expectText)
				return
			}
			require.NoError(t, err)
			require.Len(t, issues, len(tc.expected))
			assert.Equal(t, tc.expected[0].Title, issues[0].Title)
			assert.Equal(t, tc.expected[0].Labels, issues[0].Labels)
			assert.True(t, tc.expected[0].UpdatedAt.Equal(issues[0].UpdatedAt))
			assert.False(t, issues[0].IsPullRequest)
		})
	}
}

func TestNewGitHubHTTPClient(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewGitHubHTTPClient("secret", time.Second, zap.NewNop())
	require.NoError(t, err)
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer secret", gotAuth)

	anonymous, err := NewGitHubHTTPClient("", 0, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, defaultExternalHTTPTimeout, anonymous.Timeout)
	resp, err = anonymous.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, gotAuth)
}

func TestClassifyGraphQLError_KeepsCause(t *testing.T) {
	cause := errors.New("Could not resolve to a Repository")
	fe := classifyGraphQLError(fmt.Errorf("graphql: %w", cause))
	assert.Equal(t, domain.KindHTTP, fe.Kind)
	assert.ErrorIs(t, fe, cause)

	wrapped := &domain.FetchError{Kind: domain.KindHTTP, Status: 502}
	assert.Same(t, wrapped, classifyGraphQLError(wrapped))
}

func kindPtr(k domain.FetchKind) *domain.FetchKind { return &k }
