// Package ai is a thin client for an OpenAI-compatible chat-completions
// endpoint. Callers treat it as an opaque function: text plus structured
// data in, structured JSON out.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

var (
	// ErrQuotaExceeded signals a 429 / insufficient_quota reply.
	ErrQuotaExceeded = errors.New("model quota exceeded")
	// ErrUnavailable signals a transient upstream failure that retries did
	// not recover from.
	ErrUnavailable = errors.New("model unavailable")
	// ErrEmptyReply signals a successful call whose content was empty.
	ErrEmptyReply = errors.New("empty model reply")
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxElapsed  time.Duration // total retry budget
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *logrus.Logger
}

func New(cfg Config, log *logrus.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxElapsed == 0 {
		cfg.MaxElapsed = 60 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1200
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, log: log}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model          string    `json:"model"`
	Temperature    float64   `json:"temperature"`
	Messages       []message `json:"messages"`
	MaxTokens      int       `json:"max_tokens,omitempty"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends one system+user exchange and returns the raw reply content.
// Server errors and network failures are retried with exponential backoff;
// quota errors are returned immediately as ErrQuotaExceeded.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrUnavailable
	}
	req := completionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: c.cfg.MaxTokens,
	}
	req.ResponseFormat.Type = "json_object"
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	var content string
	operation := func() error {
		out, err := c.doOnce(ctx, body)
		if err != nil {
			return err
		}
		content = out
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.cfg.MaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrEmptyReply) {
			return "", err
		}
		c.log.WithError(err).Warn("model call failed after retries")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return content, nil
}

func (c *Client) doOnce(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err // network failure, retryable
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	var parsed completionResponse
	_ = json.Unmarshal(raw, &parsed)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests,
		parsed.Error != nil && parsed.Error.Code == "insufficient_quota":
		return "", backoff.Permanent(ErrQuotaExceeded)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("model server error: status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		msg := "model request rejected"
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", backoff.Permanent(fmt.Errorf("%s: status %d", msg, resp.StatusCode))
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", backoff.Permanent(ErrEmptyReply)
	}
	return parsed.Choices[0].Message.Content, nil
}
