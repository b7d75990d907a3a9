package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"github.com/sirupsen/logrus"

	"github.com/tacology/feedback/internal/ai"
	"github.com/tacology/feedback/internal/models"
)

// Insights request bounds.
const (
	DefaultInsightsLimit    = 400
	MaxInsightsLimit        = 800
	MaxThemes               = 7
	minResponsesForPatterns = 10
)

// insightsSystemPrompt is the fixed instruction for the period analysis call.
const insightsSystemPrompt = `You are Tacology's Ops Intelligence Analyst. You receive a JSON payload of customer survey responses for a time window. Analyze them and return strict JSON with this shape: {"window":{"start":...,"end":...,"timezone":"UTC"},"summary":"...","patterns":{"top_themes":[{"theme":"...","evidence":"...","frequency":n}],"recommended_actions":[{"action":"...","owner":"kitchen|service|manager|bar|host|unknown","why":"...","expected_impact":"...","priority":n}]}}. top_themes is capped at 7 entries. recommended_actions must have the same length and order as top_themes, one action per theme. Do not invent data, do not include personal information, output strict JSON only.`

const backfillSystemPrompt = `You are Tacology's Ops Intelligence Analyst. Given themes, return JSON with a recommended_actions array, same length and order as themes (max 7). Each action must be specific, operational, and include: action, owner, why, expected_impact, priority (1..n). Do not return any other fields. Output strict JSON.`

// InsightAnswer is the allowlisted per-answer shape submitted to the model.
type InsightAnswer struct {
	QuestionCode   string              `json:"question_code"`
	QuestionPrompt string              `json:"question_prompt"`
	QuestionType   models.QuestionType `json:"question_type"`
	ValueText      string              `json:"value_text,omitempty"`
	ValueNumber    *float64            `json:"value_number,omitempty"`
}

// ResponseWithAnswers is a response plus its flattened answers, as fetched
// for the insights window.
type ResponseWithAnswers struct {
	ID             string          `json:"id"`
	Location       models.Location `json:"location"`
	CreatedAt      time.Time       `json:"created_at"`
	NPSBucket      string          `json:"nps_bucket,omitempty"`
	SentimentScore *float64        `json:"sentiment_score,omitempty"`
	Answers        []InsightAnswer `json:"answers"`
}

// InsightsStore fetches the windowed response sample.
type InsightsStore interface {
	ListResponsesWithAnswers(f Filter, limit int) ([]*ResponseWithAnswers, error)
}

// ModelClient is the opaque summarization function: text plus structured
// data in, structured JSON out.
type ModelClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type InsightsService struct {
	store InsightsStore
	model ModelClient
	log   *logrus.Logger
}

func NewInsightsService(store InsightsStore, model ModelClient, log *logrus.Logger) *InsightsService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &InsightsService{store: store, model: model, log: log}
}

// insightsPayload is the bounded JSON document submitted to the model.
// Customer name/email/phone never appear here; allow_personal_data is
// enforced by construction, not just flagged.
type insightsPayload struct {
	Mode   string `json:"mode"`
	Window struct {
		Start    *time.Time `json:"start"`
		End      *time.Time `json:"end"`
		Timezone string     `json:"timezone"`
	} `json:"window"`
	Config struct {
		MaxResponses            int  `json:"max_responses"`
		MinResponsesForPatterns int  `json:"min_responses_for_patterns"`
		AllowPersonalData       bool `json:"allow_personal_data"`
	} `json:"config"`
	Data struct {
		Responses []payloadResponse `json:"responses"`
	} `json:"data"`
}

type payloadResponse struct {
	ID             string          `json:"id"`
	Location       models.Location `json:"location"`
	CreatedAt      time.Time       `json:"created_at"`
	NPSBucket      *string         `json:"nps_bucket"`
	SentimentScore *float64        `json:"sentiment_score"`
	NPS            *float64        `json:"nps"`
	Answers        []InsightAnswer `json:"answers"`
}

// InsightsResult is the aligned model output plus fetch metadata.
type InsightsResult struct {
	Insights map[string]any `json:"insights"`
	Meta     struct {
		Count int `json:"count"`
	} `json:"meta"`
}

// Generate fetches a bounded sample, submits it for summarization, and
// validates and aligns the structured reply.
func (s *InsightsService) Generate(ctx context.Context, f Filter, limit int) (*InsightsResult, error) {
	if limit == 0 {
		limit = DefaultInsightsLimit
	}
	if limit < 1 || limit > MaxInsightsLimit {
		return nil, NewValidationError("limit", "must be between 1 and 800")
	}
	if s.model == nil {
		return nil, NewUnavailableError("insights model not configured")
	}

	log := s.log.WithFields(logrus.Fields{"component": "insights", "limit": limit})

	log.WithField("stage", "fetching").Debug("loading response window")
	rows, err := s.store.ListResponsesWithAnswers(f, limit)
	if err != nil {
		return nil, err
	}

	payload := buildInsightsPayload(rows, f, limit)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"stage": "payload-built", "responses": len(payload.Data.Responses), "bytes": len(body)}).Info("insights payload ready")

	log.WithField("stage", "awaiting-model").Debug("requesting summarization")
	content, err := s.model.Complete(ctx, insightsSystemPrompt, string(body))
	if err != nil {
		return nil, mapModelError(err)
	}

	parsed, err := parseModelJSON(content)
	if err != nil {
		log.WithField("stage", "parsing").WithError(err).Warn("model reply unparseable after repair")
		return nil, NewBadGatewayError("failed to parse model response")
	}

	s.alignActions(ctx, log, parsed)

	out := &InsightsResult{Insights: parsed}
	out.Meta.Count = len(rows)
	return out, nil
}

func buildInsightsPayload(rows []*ResponseWithAnswers, f Filter, limit int) *insightsPayload {
	p := &insightsPayload{Mode: "period_analysis"}
	p.Window.Start = f.From
	p.Window.End = f.To
	p.Window.Timezone = "UTC"
	p.Config.MaxResponses = limit
	p.Config.MinResponsesForPatterns = minResponsesForPatterns
	p.Config.AllowPersonalData = false

	if len(rows) > limit {
		rows = rows[:limit]
	}
	p.Data.Responses = make([]payloadResponse, 0, len(rows))
	for _, r := range rows {
		pr := payloadResponse{
			ID:             r.ID,
			Location:       r.Location,
			CreatedAt:      r.CreatedAt,
			SentimentScore: r.SentimentScore,
			NPS:            extractNPS(r.Answers),
			Answers:        r.Answers,
		}
		if r.NPSBucket != "" {
			bucket := r.NPSBucket
			pr.NPSBucket = &bucket
		}
		if pr.Answers == nil {
			pr.Answers = []InsightAnswer{}
		}
		p.Data.Responses = append(p.Data.Responses, pr)
	}
	return p
}

// extractNPS finds the first numeric 0-10 answer.
func extractNPS(answers []InsightAnswer) *float64 {
	for _, a := range answers {
		if a.ValueNumber != nil && *a.ValueNumber >= 0 && *a.ValueNumber <= 10 {
			v := *a.ValueNumber
			return &v
		}
	}
	return nil
}

// parseModelJSON parses a model reply, attempting a best-effort repair pass
// before giving up.
func parseModelJSON(content string) (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		return parsed, nil
	}
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// alignActions enforces that patterns.recommended_actions matches
// patterns.top_themes in length and order. On misalignment it issues exactly
// one corrective call; if that also fails, the themes are returned with
// whatever partial actions were obtained. Actions are never fabricated
// locally and alignment never raises.
func (s *InsightsService) alignActions(ctx context.Context, log *logrus.Entry, parsed map[string]any) {
	patterns, _ := parsed["patterns"].(map[string]any)
	if patterns == nil {
		return
	}
	themes, _ := patterns["top_themes"].([]any)
	if len(themes) > MaxThemes {
		themes = themes[:MaxThemes]
		patterns["top_themes"] = themes
	}
	recs, _ := patterns["recommended_actions"].([]any)

	if len(themes) > 0 && actionsMisaligned(themes, recs) {
		log.WithFields(logrus.Fields{"stage": "backfilling", "themes": len(themes), "actions": len(recs)}).Info("recommended actions misaligned, issuing backfill call")
		if backfilled, err := s.backfillActions(ctx, parsed["window"], themes); err != nil {
			log.WithError(err).Warn("actions backfill failed, keeping partial actions")
		} else {
			recs = backfilled
		}
	}

	aligned := make([]any, 0, len(themes))
	for i := range themes {
		if i < len(recs) && recs[i] != nil {
			aligned = append(aligned, recs[i])
		}
	}
	patterns["recommended_actions"] = aligned
}

// actionsMisaligned reports a length mismatch or any action entry lacking an
// "action" field.
func actionsMisaligned(themes, recs []any) bool {
	if len(themes) != len(recs) {
		return true
	}
	for _, r := range recs {
		m, ok := r.(map[string]any)
		if !ok {
			return true
		}
		if a, _ := m["action"].(string); a == "" {
			return true
		}
	}
	return false
}

func (s *InsightsService) backfillActions(ctx context.Context, window any, themes []any) ([]any, error) {
	user, err := json.Marshal(map[string]any{
		"window":       window,
		"themes":       themes,
		"instructions": "One action per theme, same order, concise but specific. Owners: kitchen|service|manager|bar|host|unknown.",
	})
	if err != nil {
		return nil, err
	}
	content, err := s.model.Complete(ctx, backfillSystemPrompt, string(user))
	if err != nil {
		return nil, err
	}
	parsed, err := parseModelJSON(content)
	if err != nil {
		return nil, err
	}
	recs, _ := parsed["recommended_actions"].([]any)
	return recs, nil
}

// mapModelError surfaces model failures distinctly from store failures so
// the dashboard can show "AI unavailable" rather than "no data".
func mapModelError(err error) error {
	switch {
	case errors.Is(err, ai.ErrQuotaExceeded):
		return NewTooManyRequestsError("AI quota exceeded")
	case errors.Is(err, ai.ErrUnavailable):
		return NewUnavailableError("AI service unavailable")
	case errors.Is(err, ai.ErrEmptyReply):
		return NewBadGatewayError("empty model response")
	default:
		return NewUnavailableError(err.Error())
	}
}
