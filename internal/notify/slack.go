package notify

import (
	"context"
	"fmt"
	"net/http"

	"jobradar/internal/config"
	"jobradar/pkg/models"
)

const slackMaxJobs = 10

// SlackChannel delivers job digests as Block Kit messages via webhook
type SlackChannel struct {
	webhookURL string
	client     *http.Client
}

// NewSlackChannel creates a Slack channel from config
func NewSlackChannel(cfg *config.Config) *SlackChannel {
	return &SlackChannel{
		webhookURL: cfg.Notifications.Slack.WebhookURL,
		client:     newWebhookClient(cfg.Notifications.Timeout),
	}
}

func (c *SlackChannel) Name() string {
	return "slack"
}

func (c *SlackChannel) IsConfigured() bool {
	return c.webhookURL != ""
}

func (c *SlackChannel) Send(ctx context.Context, jobs []models.JobRecord) error {
	if !c.IsConfigured() {
		return &SendError{Channel: c.Name(), Permanent: true, Err: fmt.Errorf("slack webhook not configured")}
	}

	payload := map[string]interface{}{
		"blocks": buildSlackBlocks(jobs),
	}
	return postJSON(ctx, c.client, c.Name(), c.webhookURL, payload)
}

func buildSlackBlocks(jobs []models.JobRecord) []map[string]interface{} {
	blocks := []map[string]interface{}{
		{
			"type": "header",
			"text": map[string]interface{}{
				"type":  "plain_text",
				"text":  fmt.Sprintf("%d new job(s) found", len(jobs)),
				"emoji": true,
			},
		},
		{"type": "divider"},
	}

	shown := jobs
	if len(shown) > slackMaxJobs {
		shown = shown[:slackMaxJobs]
	}

	for _, job := range shown {
		blocks = append(blocks, map[string]interface{}{
			"type": "section",
			"text": map[string]interface{}{
				"type": "mrkdwn",
				"text": fmt.Sprintf("*<%s|%s>*\n%s • %s",
					job.URL, job.Title, job.CompanyName, orDefault(job.Location, "N/A")),
			},
		})
	}

	if len(jobs) > slackMaxJobs {
		blocks = append(blocks, map[string]interface{}{
			"type": "context",
			"elements": []map[string]interface{}{
				{"type": "mrkdwn", "text": fmt.Sprintf("_...and %d more jobs_", len(jobs)-slackMaxJobs)},
			},
		})
	}

	return blocks
}
