package provider

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the submission server settings.
type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SMTPProvider submits each message over a fresh authenticated STARTTLS
// session. A send is one short dial, so no connection is held between parts
// that are minutes apart.
type SMTPProvider struct {
	cfg SMTPConfig
}

func NewSMTPProvider(cfg SMTPConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Send(ctx context.Context, e *Email) (*SendResponse, error) {
	msg, err := BuildMessage(e)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(p.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(p.cfg.Username),
		mail.WithPassword(p.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName:         p.cfg.Host,
			InsecureSkipVerify: p.cfg.InsecureSkipVerify, //nolint:gosec // opt-in for relays with self-signed certs
		}),
	}
	if p.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(p.cfg.Timeout))
	}

	client, err := mail.NewClient(p.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return nil, fmt.Errorf("smtp send: %w", err)
	}

	return &SendResponse{MessageID: messageID(msg), Status: "sent"}, nil
}

// BuildMessage renders e as a multipart text/html message with a generated
// Message-ID.
func BuildMessage(e *Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(e.From); err != nil {
		return nil, fmt.Errorf("set from %q: %w", e.From, err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("set to %q: %w", e.To, err)
	}
	msg.Subject(e.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, e.Text)

	body := e.HTML
	if body == "" {
		body = TextToHTML(e.Text)
	}
	msg.AddAlternativeString(mail.TypeTextHTML, body)
	return msg, nil
}

// TextToHTML escapes text and turns newlines into <br>.
func TextToHTML(text string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>"
}

func messageID(msg *mail.Msg) string {
	if ids := msg.GetGenHeader(mail.HeaderMessageID); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

var _ Provider = (*SMTPProvider)(nil)
