package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSConfig points at a Twilio-compatible messaging API.
type SMSConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	AlertTo    string
	Timeout    time.Duration
}

type SMSClient struct {
	cfg  SMSConfig
	http *http.Client
}

func NewSMSClient(cfg SMSConfig) *SMSClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMSClient{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

func (c *SMSClient) Configured() bool {
	return c != nil && c.cfg.BaseURL != "" && c.cfg.AccountSID != "" &&
		c.cfg.AuthToken != "" && c.cfg.From != "" && c.cfg.AlertTo != ""
}

// Send posts one SMS to the configured alert number. The provider takes
// form-encoded requests with basic auth and returns JSON.
func (c *SMSClient) Send(ctx context.Context, body string) error {
	form := url.Values{}
	form.Set("To", c.cfg.AlertTo)
	form.Set("From", c.cfg.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sms send failed: status %d: %s", resp.StatusCode, raw)
	}
	return nil
}
