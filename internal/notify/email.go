package notify

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strings"

	"jobradar/internal/config"
	"jobradar/pkg/models"
)

// EmailChannel delivers job digests over SMTP with STARTTLS
type EmailChannel struct {
	host      string
	port      int
	username  string
	password  string
	recipient string
}

// NewEmailChannel creates an email channel from config
func NewEmailChannel(cfg *config.Config) *EmailChannel {
	return &EmailChannel{
		host:      cfg.Notifications.Email.SMTPHost,
		port:      cfg.Notifications.Email.SMTPPort,
		username:  cfg.Notifications.Email.Username,
		password:  cfg.Notifications.Email.Password,
		recipient: cfg.Notifications.Email.Recipient,
	}
}

func (c *EmailChannel) Name() string {
	return "email"
}

func (c *EmailChannel) IsConfigured() bool {
	return c.username != "" && c.password != "" && c.recipient != ""
}

func (c *EmailChannel) Send(ctx context.Context, jobs []models.JobRecord) error {
	if !c.IsConfigured() {
		return &SendError{Channel: c.Name(), Permanent: true, Err: fmt.Errorf("email credentials not configured")}
	}

	subject := fmt.Sprintf("Job Radar: %d new job(s) found", len(jobs))
	body := buildEmailBody(jobs)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", c.username)
	fmt.Fprintf(&msg, "To: %s\r\n", c.recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := net.JoinHostPort(c.host, fmt.Sprintf("%d", c.port))
	auth := smtp.PlainAuth("", c.username, c.password, c.host)

	// net/smtp has no context support, so honor cancellation around the call
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, c.username, []string{c.recipient}, []byte(msg.String()))
	}()

	select {
	case <-ctx.Done():
		return &SendError{Channel: c.Name(), Err: ctx.Err()}
	case err := <-done:
		if err != nil {
			return &SendError{Channel: c.Name(), Err: fmt.Errorf("smtp send: %w", err)}
		}
	}

	return nil
}

func buildEmailBody(jobs []models.JobRecord) string {
	var rows strings.Builder
	for _, job := range jobs {
		fmt.Fprintf(&rows, `<tr>
<td style="padding:12px 16px;border-bottom:1px solid #eee;"><strong>%s</strong></td>
<td style="padding:12px 16px;border-bottom:1px solid #eee;"><a href="%s" style="color:#2563eb;text-decoration:none;">%s</a></td>
<td style="padding:12px 16px;border-bottom:1px solid #eee;color:#666;">%s</td>
<td style="padding:12px 16px;border-bottom:1px solid #eee;color:#888;font-size:13px;">%s</td>
</tr>`,
			html.EscapeString(job.CompanyName),
			html.EscapeString(job.URL),
			html.EscapeString(job.Title),
			html.EscapeString(orDefault(job.Location, "Not specified")),
			html.EscapeString(orDefault(job.PostedDate, "N/A")))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#f5f5f5;margin:0;padding:20px;">
<div style="max-width:700px;margin:0 auto;background:white;border-radius:12px;overflow:hidden;">
<div style="background:linear-gradient(135deg,#3b82f6,#8b5cf6);padding:24px 32px;color:white;">
<h1 style="margin:0;font-size:22px;">New Job Openings Found</h1>
<p style="margin:8px 0 0;opacity:0.9;font-size:14px;">Job Radar found %d new position(s)</p>
</div>
<div style="padding:24px 32px;">
<table style="width:100%%;border-collapse:collapse;">
<thead><tr style="background:#f8f9fa;">
<th style="padding:12px 16px;text-align:left;font-size:12px;text-transform:uppercase;color:#666;">Company</th>
<th style="padding:12px 16px;text-align:left;font-size:12px;text-transform:uppercase;color:#666;">Position</th>
<th style="padding:12px 16px;text-align:left;font-size:12px;text-transform:uppercase;color:#666;">Location</th>
<th style="padding:12px 16px;text-align:left;font-size:12px;text-transform:uppercase;color:#666;">Posted</th>
</tr></thead>
<tbody>%s</tbody>
</table>
</div>
<div style="padding:20px 32px;background:#f8f9fa;text-align:center;font-size:13px;color:#888;">
<p style="margin:0;">Sent by <strong>Job Radar</strong></p>
</div>
</div>
</body></html>`, len(jobs), rows.String())
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
