package services

import (
	"math"
	"sort"

	"github.com/tacology/feedback/internal/models"
)

// StatsStore is the persistence surface the statistics calculator needs.
type StatsStore interface {
	ListResponses(f Filter) ([]*models.SurveyResponse, error)
	GetQuestion(id string) (*models.Question, error)
	ListAnswersByQuestion(f Filter) ([]*models.Answer, error)
}

type StatsService struct {
	store StatsStore
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

// SentimentCounts buckets responses by sentiment score.
type SentimentCounts struct {
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	Positive int `json:"positive"`
	Missing  int `json:"missing"`
}

// NPSCounts buckets responses by stored NPS bucket.
type NPSCounts struct {
	Promoters  int `json:"promoters"`
	Passives   int `json:"passives"`
	Detractors int `json:"detractors"`
	Missing    int `json:"missing"`
}

// StatsOverview is the dashboard headline block.
type StatsOverview struct {
	Total      int             `json:"total"`
	ByLocation map[string]int  `json:"byLocation"`
	ByDay      map[string]int  `json:"byDay"`
	Sentiment  SentimentCounts `json:"sentiment"`
	NPS        NPSCounts       `json:"nps"`
	NPSScore   *float64        `json:"npsScore"`
}

// Distribution is the per-question tally with derived percentages.
type Distribution struct {
	QuestionID  string              `json:"question_id"`
	Code        string              `json:"code"`
	Prompt      string              `json:"prompt"`
	Type        models.QuestionType `json:"question_type"`
	Counts      []LabelCount        `json:"counts"`
	Percentages map[string]int      `json:"percentages"`
	Total       int                 `json:"total"`
	Texts       []string            `json:"texts,omitempty"`
}

// Overview aggregates all responses matching the filter into headline stats.
// A store failure aborts the whole aggregation; it is never reported as an
// empty result.
func (s *StatsService) Overview(f Filter) (*StatsOverview, error) {
	rows, err := s.store.ListResponses(f)
	if err != nil {
		return nil, err
	}

	out := &StatsOverview{
		Total:      len(rows),
		ByLocation: map[string]int{},
		ByDay:      map[string]int{},
	}
	for _, r := range rows {
		out.ByLocation[string(r.Location)]++
		out.ByDay[r.CreatedAt.UTC().Format("2006-01-02")]++

		switch models.SentimentBucketOf(r.SentimentScore) {
		case models.SentimentNegative:
			out.Sentiment.Negative++
		case models.SentimentPositive:
			out.Sentiment.Positive++
		case models.SentimentNeutral:
			out.Sentiment.Neutral++
		default:
			out.Sentiment.Missing++
		}

		switch r.NPSBucket {
		case models.NPSPromoter:
			out.NPS.Promoters++
		case models.NPSPassive:
			out.NPS.Passives++
		case models.NPSDetractor:
			out.NPS.Detractors++
		default:
			out.NPS.Missing++
		}
	}
	out.NPSScore = NPSScore(out.NPS.Promoters, out.NPS.Passives, out.NPS.Detractors)
	return out, nil
}

// QuestionDistribution tallies one question's answers under the filter.
// The filter must name a question.
func (s *StatsService) QuestionDistribution(f Filter) (*Distribution, error) {
	if f.QuestionID == "" {
		return nil, NewValidationError("questionId", "required")
	}
	q, err := s.store.GetQuestion(f.QuestionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewNotFoundError("question not found")
	}
	answers, err := s.store.ListAnswersByQuestion(f)
	if err != nil {
		return nil, err
	}

	t := TallyAnswers(q, answers)
	return &Distribution{
		QuestionID:  q.ID,
		Code:        q.Code,
		Prompt:      q.Prompt,
		Type:        q.Type,
		Counts:      t.Ordered,
		Percentages: Percentages(t),
		Total:       t.Total,
		Texts:       t.Texts,
	}, nil
}

// Percentages derives rounded percentages per declared option. When the total
// is zero every percentage is zero; there is no division and no NaN.
func Percentages(t *Tally) map[string]int {
	out := make(map[string]int, len(t.Ordered))
	for _, lc := range t.Ordered {
		out[lc.Label] = percentage(lc.Count, t.Total)
	}
	return out
}

// percentage rounds half up.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(100*float64(count)/float64(total) + 0.5))
}

// NPSScore computes ((promoters - detractors) / scored) * 100, nil when no
// response carries a real bucket.
func NPSScore(promoters, passives, detractors int) *float64 {
	scored := promoters + passives + detractors
	if scored == 0 {
		return nil
	}
	score := float64(promoters-detractors) / float64(scored) * 100
	return &score
}

// SortedDays returns the byDay keys in ascending date order, for stable
// trend rendering.
func SortedDays(byDay map[string]int) []string {
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
