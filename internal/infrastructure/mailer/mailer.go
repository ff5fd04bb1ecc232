// Package mailer delivers share notification email via SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/domain/share"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// SMTPMailer sends share links over plain SMTP with a multipart HTML body.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

var _ share.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer from the service configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
	}
}

// IsConfigured reports whether enough SMTP settings are present to send.
func (m *SMTPMailer) IsConfigured() bool {
	return m.host != "" && m.from != ""
}

// SendShareEmail implements share.Mailer.
func (m *SMTPMailer) SendShareEmail(ctx context.Context, recipient, shareURL, title string, snapshot []thread.Message) error {
	if !m.IsConfigured() {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"mailer is not configured",
			nil,
			"9b1c3d5e-7f8a-4b0c-2d4e-6f8a9b1c3d5e",
		)
	}

	data := shareEmailData{
		AppName:      m.fromName,
		Title:        title,
		ShareURL:     shareURL,
		MessageCount: len(snapshot),
	}
	if data.Title == "" {
		data.Title = "A shared conversation"
	}

	html, err := renderTemplate(shareEmailTemplate, data)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to render share email")
	}

	subject := fmt.Sprintf("%s shared a conversation with you", data.AppName)
	if err := m.sendHTML([]string{recipient}, subject, html); err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"failed to send share email",
			err,
			"0c2d4e6f-8a9b-4c1d-3e5f-7a9b0c2d4e6f",
		)
	}

	return nil
}

func (m *SMTPMailer) sendHTML(to []string, subject, htmlBody string) error {
	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}

	boundary := "boundary-chat-api"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "Please view this email in an HTML-capable email client.\r\n")
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	server := m.host + ":" + m.port

	return smtp.SendMail(server, auth, m.from, to, msg.Bytes())
}

type shareEmailData struct {
	AppName      string
	Title        string
	ShareURL     string
	MessageCount int
}

func renderTemplate(tmpl string, data interface{}) (string, error) {
	t := template.Must(template.New("email").Parse(tmpl))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const shareEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 2px solid #0066cc; padding-bottom: 10px; margin-bottom: 20px; }
        .button { display: inline-block; padding: 12px 24px; background: #0066cc; color: white; text-decoration: none; border-radius: 4px; margin: 20px 0; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #666; }
        .link { word-break: break-all; color: #0066cc; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.AppName}}</h1>
    </div>

    <h2>{{.Title}}</h2>

    <p>A conversation with {{.MessageCount}} messages has been shared with you.</p>

    <p>
        <a href="{{.ShareURL}}" class="button">View Conversation</a>
    </p>

    <p>Or copy and paste this link into your browser:</p>
    <p class="link">{{.ShareURL}}</p>

    <div class="footer">
        <p>This link stays available until the sender revokes it.</p>
    </div>
</body>
</html>`
