package notify

import (
	"context"
	"fmt"
	"net/http"

	"jobradar/internal/config"
	"jobradar/pkg/models"
)

const discordMaxJobs = 10

// DiscordChannel delivers job digests as embeds via webhook
type DiscordChannel struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordChannel creates a Discord channel from config
func NewDiscordChannel(cfg *config.Config) *DiscordChannel {
	return &DiscordChannel{
		webhookURL: cfg.Notifications.Discord.WebhookURL,
		client:     newWebhookClient(cfg.Notifications.Timeout),
	}
}

func (c *DiscordChannel) Name() string {
	return "discord"
}

func (c *DiscordChannel) IsConfigured() bool {
	return c.webhookURL != ""
}

func (c *DiscordChannel) Send(ctx context.Context, jobs []models.JobRecord) error {
	if !c.IsConfigured() {
		return &SendError{Channel: c.Name(), Permanent: true, Err: fmt.Errorf("discord webhook not configured")}
	}

	payload := map[string]interface{}{
		"embeds": []map[string]interface{}{buildDiscordEmbed(jobs)},
	}
	return postJSON(ctx, c.client, c.Name(), c.webhookURL, payload)
}

func buildDiscordEmbed(jobs []models.JobRecord) map[string]interface{} {
	shown := jobs
	if len(shown) > discordMaxJobs {
		shown = shown[:discordMaxJobs]
	}

	fields := make([]map[string]interface{}, 0, len(shown))
	for _, job := range shown {
		fields = append(fields, map[string]interface{}{
			"name": job.Title,
			"value": fmt.Sprintf("%s\n%s\n[Apply](%s)",
				job.CompanyName, orDefault(job.Location, "N/A"), job.URL),
			"inline": true,
		})
	}

	return map[string]interface{}{
		"title":  fmt.Sprintf("%d new job(s) found", len(jobs)),
		"color":  0x3b82f6,
		"fields": fields,
		"footer": map[string]interface{}{"text": "Job Radar"},
	}
}
