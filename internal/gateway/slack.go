package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/slack-go/slack"
)

// Notifier announces accepted submissions somewhere humans will see them.
type Notifier interface {
	NotifySubmission(ctx context.Context, s domain.Submission, r domain.Receipt) error
}

// SlackNotifier posts to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewSlackNotifier(webhookURL string, client *http.Client) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL, client: client}
}

func (n *SlackNotifier) NotifySubmission(ctx context.Context, s domain.Submission, r domain.Receipt) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("New idea submitted: *%s* (%s)", s.Title, s.Category),
		Attachments: []slack.Attachment{{
			Text: s.Problem,
			Fields: []slack.AttachmentField{
				{Title: "Audience", Value: s.Audience, Short: true},
				{Title: "Contact", Value: s.Contact, Short: true},
			},
			TitleLink: r.TrackingURL,
			Title:     trackingTitle(r),
		}},
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.client, msg); err != nil {
		return fmt.Errorf("failed to post slack notification: %w", err)
	}
	return nil
}

func trackingTitle(r domain.Receipt) string {
	if r.TrackingURL == "" {
		return ""
	}
	return "View ticket"
}
