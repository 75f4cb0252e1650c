package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/naka-gawa/idealab/internal/domain"
	"go.uber.org/zap"
)

var errWebhookNotConfigured = errors.New("intake webhook url is not configured")

// SubmissionPoster delivers an intake submission.
type SubmissionPoster interface {
	PostSubmission(ctx context.Context, s domain.Submission) (domain.Receipt, error)
}

// WebhookGateway posts submissions as JSON to a single webhook URL.
type WebhookGateway struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// webhookReply covers every field a webhook is known to send back.
type webhookReply struct {
	IssueURL string `json:"issueUrl"`
	URL      string `json:"url"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

func NewWebhookGateway(url string, client *http.Client, logger *zap.Logger) *WebhookGateway {
	return &WebhookGateway{url: url, client: client, logger: logger}
}

// PostSubmission sends s once. A non-2xx reply becomes a KindHTTP FetchError
// whose Reason is the reply's reason or message field.
func (g *WebhookGateway) PostSubmission(ctx context.Context, s domain.Submission) (domain.Receipt, error) {
	if g.url == "" {
		return domain.Receipt{}, &domain.FetchError{Kind: domain.KindNetwork, Err: errWebhookNotConfigured}
	}
	body, err := json.Marshal(s)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("failed to encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("failed to post submission: %w", &domain.FetchError{Kind: domain.KindNetwork, Err: err})
	}
	defer resp.Body.Close()

	// The reply body is optional; anything unparseable counts as empty.
	var reply webhookReply
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); err == nil {
		_ = json.Unmarshal(raw, &reply)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := reply.Reason
		if reason == "" {
			reason = reply.Message
		}
		g.logger.Warn("Webhook rejected submission", zap.Int("status", resp.StatusCode), zap.String("reason", reason))
		return domain.Receipt{}, fmt.Errorf("failed to post submission: %w", &domain.FetchError{Kind: domain.KindHTTP, Status: resp.StatusCode, Reason: reason})
	}

	tracking := reply.IssueURL
	if tracking == "" {
		tracking = reply.URL
	}
	g.logger.Debug("Submission accepted", zap.String("tracking_url", tracking))
	return domain.Receipt{TrackingURL: tracking}, nil
}
