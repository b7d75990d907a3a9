package ai

import (
	"context"
	"encoding/json"
	"strings"
)

const sentimentSystemPrompt = "You are a sentiment rater. Return only a JSON object with key 'score' in [-1,1], where -1 is very negative, 0 is neutral, +1 very positive."

// ClassifySentiment rates free-text feedback on [-1,1]. Empty text yields a
// nil score without calling the model.
func (c *Client) ClassifySentiment(ctx context.Context, text string) (*float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	content, err := c.Complete(ctx, sentimentSystemPrompt, text)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil || parsed.Score == nil {
		return nil, ErrEmptyReply
	}
	score := clamp(*parsed.Score, -1, 1)
	return &score, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
