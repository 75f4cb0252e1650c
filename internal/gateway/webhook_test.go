package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleSubmission() domain.Submission {
	return domain.Submission{
		Title:     "Foo",
		Category:  "Tools",
		Problem:   "Things are slow",
		Source:    "elevai-labs-submit",
		UserAgent: "test-agent",
		Page:      "https://labs.example.com/submit",
	}
}

func TestWebhookGateway_PostSubmission(t *testing.T) {
	testCases := []struct {
		name         string
		status       int
		body         string
		wantTracking string
		wantStatus   int
		wantReason   string
	}{
		{name: "issueUrl wins", status: http.StatusOK, body: `{"issueUrl":"https://gh/1","url":"https://other"}`, wantTracking: "https://gh/1"},
		{name: "url fallback", status: http.StatusCreated, body: `{"url":"https://gh/2"}`, wantTracking: "https://gh/2"},
		{name: "empty reply", status: http.StatusOK, body: ``},
		{name: "non-json reply", status: http.StatusOK, body: `thanks!`},
		{name: "reason on failure", status: http.StatusBadRequest, body: `{"reason":"bad key","message":"ignored"}`, wantStatus: 400, wantReason: "bad key"},
		{name: "message on failure", status: http.StatusForbidden, body: `{"message":"nope"}`, wantStatus: 403, wantReason: "nope"},
		{name: "bare failure", status: http.StatusBadGateway, body: `<html>`, wantStatus: 502},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "application/json", r.Header.Get("Accept"))

				raw, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				var got map[string]string
				require.NoError(t, json.Unmarshal(raw, &got))
				assert.Equal(t, "Foo", got["title"])
				assert.Equal(t, "test-agent", got["userAgent"])
				assert.Equal(t, "https://labs.example.com/submit", got["page"])

				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			gateway := NewWebhookGateway(server.URL, server.Client(), zap.NewNop())
			receipt, err := gateway.PostSubmission(context.Background(), sampleSubmission())
			if tc.wantStatus != 0 {
				var fe *domain.FetchError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, domain.KindHTTP, fe.Kind)
				assert.Equal(t, tc.wantStatus, fe.Status)
				assert.Equal(t, tc.wantReason, fe.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTracking, receipt.TrackingURL)
		})
	}
}

func TestWebhookGateway_NotConfigured(t *testing.T) {
	gateway := NewWebhookGateway("", http.DefaultClient, zap.NewNop())
	_, err := gateway.PostSubmission(context.Background(), sampleSubmission())
	require.ErrorIs(t, err, errWebhookNotConfigured)
	assert.True(t, domain.IsFetchKind(err, domain.KindNetwork))
}

func TestSlackNotifier_NotifySubmission(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL, server.Client())
	err := notifier.NotifySubmission(context.Background(), sampleSubmission(), domain.Receipt{TrackingURL: "https://gh/1"})
	require.NoError(t, err)
	assert.Contains(t, got["text"], "*Foo*")
	assert.Contains(t, got["text"], "Tools")

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()
	err = NewSlackNotifier(failing.URL, failing.Client()).NotifySubmission(context.Background(), sampleSubmission(), domain.Receipt{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to post slack notification")
}
