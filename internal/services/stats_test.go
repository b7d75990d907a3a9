package services

import (
	"testing"
	"time"

	"github.com/tacology/feedback/internal/models"
)

type stubStatsStore struct {
	responses []*models.SurveyResponse
	question  *models.Question
	answers   []*models.Answer
}

func (s *stubStatsStore) ListResponses(f Filter) ([]*models.SurveyResponse, error) {
	out := []*models.SurveyResponse{}
	for _, r := range s.responses {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStatsStore) GetQuestion(id string) (*models.Question, error) {
	if s.question != nil && s.question.ID == id {
		return s.question, nil
	}
	return nil, nil
}

func (s *stubStatsStore) ListAnswersByQuestion(f Filter) ([]*models.Answer, error) {
	return s.answers, nil
}

func respWithNPS(value float64, loc models.Location, day int) *models.SurveyResponse {
	return &models.SurveyResponse{
		ID:        "r",
		Location:  loc,
		CreatedAt: time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC),
		NPSBucket: models.NPSBucketOf(value),
	}
}

func TestOverviewNPS(t *testing.T) {
	store := &stubStatsStore{responses: []*models.SurveyResponse{
		respWithNPS(9, models.LocationBrickell, 1),
		respWithNPS(9, models.LocationBrickell, 1),
		respWithNPS(10, models.LocationWynwood, 2),
		respWithNPS(7, models.LocationWynwood, 2),
		respWithNPS(3, models.LocationBrickell, 3),
	}}
	svc := NewStatsService(store)

	out, err := svc.Overview(Filter{})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if out.Total != 5 {
		t.Fatalf("total = %d, want 5", out.Total)
	}
	if out.NPS.Promoters != 3 || out.NPS.Passives != 1 || out.NPS.Detractors != 1 {
		t.Fatalf("nps counts = %+v", out.NPS)
	}
	// (3 - 1) / 5 * 100 = 40
	if out.NPSScore == nil || *out.NPSScore != 40 {
		t.Fatalf("nps score = %v, want 40", out.NPSScore)
	}
	if out.ByLocation["brickell"] != 3 || out.ByLocation["wynwood"] != 2 {
		t.Fatalf("byLocation = %v", out.ByLocation)
	}
	if out.ByDay["2026-03-01"] != 2 || out.ByDay["2026-03-02"] != 2 || out.ByDay["2026-03-03"] != 1 {
		t.Fatalf("byDay = %v", out.ByDay)
	}
}

func TestOverviewSentimentBuckets(t *testing.T) {
	store := &stubStatsStore{responses: []*models.SurveyResponse{
		{ID: "a", Location: models.LocationBrickell, CreatedAt: time.Now().UTC(), SentimentScore: fptr(-0.5)},
		{ID: "b", Location: models.LocationBrickell, CreatedAt: time.Now().UTC(), SentimentScore: fptr(-0.2)}, // boundary, neutral
		{ID: "c", Location: models.LocationBrickell, CreatedAt: time.Now().UTC(), SentimentScore: fptr(0.2)},  // boundary, neutral
		{ID: "d", Location: models.LocationBrickell, CreatedAt: time.Now().UTC(), SentimentScore: fptr(0.21)},
		{ID: "e", Location: models.LocationBrickell, CreatedAt: time.Now().UTC()},
	}}
	svc := NewStatsService(store)

	out, err := svc.Overview(Filter{})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	want := SentimentCounts{Negative: 1, Neutral: 2, Positive: 1, Missing: 1}
	if out.Sentiment != want {
		t.Fatalf("sentiment = %+v, want %+v", out.Sentiment, want)
	}
	// No NPS answers at all: the score is null, not zero.
	if out.NPSScore != nil {
		t.Fatalf("nps score = %v, want nil", *out.NPSScore)
	}
	if out.NPS.Missing != 5 {
		t.Fatalf("nps missing = %d, want 5", out.NPS.Missing)
	}
}

func TestOverviewEmpty(t *testing.T) {
	svc := NewStatsService(&stubStatsStore{})
	out, err := svc.Overview(Filter{})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if out.Total != 0 || out.NPSScore != nil {
		t.Fatalf("empty overview = %+v", out)
	}
}

func TestQuestionDistribution(t *testing.T) {
	store := &stubStatsStore{
		question: choiceQuestion("Excellent", "Good", "Fair", "Poor"),
		answers: []*models.Answer{
			textAnswer("Excellent"), textAnswer("Excellent"), textAnswer("Good"),
		},
	}
	svc := NewStatsService(store)

	out, err := svc.QuestionDistribution(Filter{QuestionID: "q1"})
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if out.Total != 3 {
		t.Fatalf("total = %d, want 3", out.Total)
	}
	if out.Percentages["Excellent"] != 67 || out.Percentages["Good"] != 33 {
		t.Fatalf("percentages = %v", out.Percentages)
	}
	if out.Code != "food_rating" {
		t.Fatalf("code = %s", out.Code)
	}
}

func TestQuestionDistributionRequiresQuestion(t *testing.T) {
	svc := NewStatsService(&stubStatsStore{})

	if _, err := svc.QuestionDistribution(Filter{}); err == nil {
		t.Fatal("want validation error for missing questionId")
	}

	_, err := svc.QuestionDistribution(Filter{QuestionID: "missing"})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("want not_found, got %v", err)
	}
}

func TestSortedDays(t *testing.T) {
	days := SortedDays(map[string]int{"2026-03-03": 1, "2026-03-01": 2, "2026-03-02": 3})
	if days[0] != "2026-03-01" || days[2] != "2026-03-03" {
		t.Fatalf("days = %v", days)
	}
}
