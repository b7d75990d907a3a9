// Package notify sends post-commit side effects: the coupon email to the
// customer and low-score alerts to operators. Every send is best effort.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmailConfig points at a Resend-compatible transactional email API.
type EmailConfig struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

type EmailClient struct {
	cfg  EmailConfig
	http *http.Client
}

func NewEmailClient(cfg EmailConfig) *EmailClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &EmailClient{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// Configured reports whether credentials are present; unconfigured sends are
// skipped rather than failed.
func (c *EmailClient) Configured() bool {
	return c != nil && c.cfg.BaseURL != "" && c.cfg.APIKey != "" && c.cfg.From != ""
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send posts one email through the provider's /emails endpoint.
func (c *EmailClient) Send(ctx context.Context, to, subject, html, text string) error {
	body, err := json.Marshal(sendEmailRequest{
		From:    c.cfg.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("email send failed: status %d: %s", resp.StatusCode, raw)
	}
	return nil
}
