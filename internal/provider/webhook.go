package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RelayPayload is the JSON body posted to the mail relay for one SMS part.
type RelayPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Gateway string `json:"gateway"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// WebhookConfig points at an HTTP mail relay.
type WebhookConfig struct {
	URL string
	// Token, when set, is sent as a bearer token.
	Token   string
	Timeout time.Duration
}

// WebhookProvider hands gateway emails to an HTTP relay for hosts that block
// outbound SMTP.
type WebhookProvider struct {
	cfg        WebhookConfig
	httpClient *http.Client
}

func NewWebhookProvider(cfg WebhookConfig) *WebhookProvider {
	return &WebhookProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send accepts any 2xx whose JSON body carries a messageId.
func (p *WebhookProvider) Send(ctx context.Context, e *Email) (*SendResponse, error) {
	_, gateway, _ := strings.Cut(e.To, "@")
	body, err := json.Marshal(RelayPayload{
		From:    e.From,
		To:      e.To,
		Gateway: gateway,
		Subject: e.Subject,
		Text:    e.Text,
		HTML:    e.HTML,
	})
	if err != nil {
		return nil, fmt.Errorf("encode relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay %s: %w", gateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("relay rejected %s: %d %s", e.To, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode relay response: %w", err)
	}
	if out.MessageID == "" {
		return nil, fmt.Errorf("relay accepted %s without a messageId", e.To)
	}
	return &out, nil
}

var _ Provider = (*WebhookProvider)(nil)
