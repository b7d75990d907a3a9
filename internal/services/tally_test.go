package services

import (
	"testing"

	"github.com/tacology/feedback/internal/models"
)

func fptr(v float64) *float64 { return &v }

func choiceQuestion(labels ...string) *models.Question {
	return &models.Question{
		ID:      "q1",
		Code:    "food_rating",
		Prompt:  "How was the food?",
		Type:    models.QuestionSingleChoice,
		Options: models.QuestionOptions{Labels: labels},
	}
}

func textAnswer(v string) *models.Answer { return &models.Answer{ValueText: v} }
func numAnswer(v float64) *models.Answer { return &models.Answer{ValueNumber: fptr(v)} }

func TestTallySingleChoice(t *testing.T) {
	q := choiceQuestion("Excellent", "Good", "Fair", "Poor")
	answers := []*models.Answer{}
	for i := 0; i < 6; i++ {
		answers = append(answers, textAnswer("Excellent"))
	}
	for i := 0; i < 4; i++ {
		answers = append(answers, textAnswer("Good"))
	}
	answers = append(answers, textAnswer("Amazing")) // undeclared, dropped

	tally := TallyAnswers(q, answers)
	if tally.Total != 10 {
		t.Fatalf("total = %d, want 10", tally.Total)
	}
	if tally.Counts["Excellent"] != 6 || tally.Counts["Good"] != 4 {
		t.Fatalf("counts = %v", tally.Counts)
	}
	if tally.Counts["Fair"] != 0 || tally.Counts["Poor"] != 0 {
		t.Fatalf("declared labels must be present with zero counts: %v", tally.Counts)
	}

	// Ordered follows the declared option order, not frequency.
	wantOrder := []string{"Excellent", "Good", "Fair", "Poor"}
	for i, lc := range tally.Ordered {
		if lc.Label != wantOrder[i] {
			t.Fatalf("ordered[%d] = %s, want %s", i, lc.Label, wantOrder[i])
		}
	}

	pct := Percentages(tally)
	if pct["Excellent"] != 60 || pct["Good"] != 40 {
		t.Fatalf("percentages = %v", pct)
	}
}

func TestTallySingleChoiceIndexFallback(t *testing.T) {
	q := choiceQuestion("Excellent", "Good", "Fair")
	answers := []*models.Answer{
		numAnswer(1),   // Excellent
		numAnswer(3),   // Fair
		numAnswer(0),   // out of range
		numAnswer(4),   // out of range
		numAnswer(2.5), // not an index
	}
	tally := TallyAnswers(q, answers)
	if tally.Counts["Excellent"] != 1 || tally.Counts["Fair"] != 1 {
		t.Fatalf("counts = %v", tally.Counts)
	}
	if tally.Total != 2 {
		t.Fatalf("total = %d, want 2", tally.Total)
	}
}

func TestTallyScale(t *testing.T) {
	q := &models.Question{ID: "q2", Type: models.QuestionScale0To10}
	answers := []*models.Answer{
		numAnswer(0), numAnswer(10), numAnswer(10),
		numAnswer(7.5), // non-integer, dropped
		numAnswer(11),  // out of range, dropped
		numAnswer(-1),  // out of range, dropped
	}
	tally := TallyAnswers(q, answers)
	if tally.Total != 3 {
		t.Fatalf("total = %d, want 3", tally.Total)
	}
	if tally.Counts["10"] != 2 || tally.Counts["0"] != 1 {
		t.Fatalf("counts = %v", tally.Counts)
	}
	if len(tally.Ordered) != 11 {
		t.Fatalf("scale tally must carry all 11 buckets, got %d", len(tally.Ordered))
	}
	if tally.Ordered[0].Label != "0" || tally.Ordered[10].Label != "10" {
		t.Fatalf("bucket order wrong: %v", tally.Ordered)
	}
}

func TestTallyFreeText(t *testing.T) {
	q := &models.Question{ID: "q3", Type: models.QuestionFreeText}
	answers := []*models.Answer{
		textAnswer("  more salsa  "),
		textAnswer(""),
		textAnswer("   "),
		textAnswer("loved it"),
	}
	tally := TallyAnswers(q, answers)
	if tally.Total != 2 {
		t.Fatalf("total = %d, want 2", tally.Total)
	}
	if tally.Texts[0] != "more salsa" || tally.Texts[1] != "loved it" {
		t.Fatalf("texts = %v", tally.Texts)
	}
}

func TestTallyNilQuestion(t *testing.T) {
	tally := TallyAnswers(nil, []*models.Answer{textAnswer("x")})
	if tally.Total != 0 || len(tally.Ordered) != 0 {
		t.Fatalf("nil question must produce an empty tally: %+v", tally)
	}
}

func TestPercentagesZeroTotal(t *testing.T) {
	q := choiceQuestion("Yes", "No")
	tally := TallyAnswers(q, nil)
	pct := Percentages(tally)
	if pct["Yes"] != 0 || pct["No"] != 0 {
		t.Fatalf("zero-total percentages must be zero: %v", pct)
	}
}

func TestPercentageRounding(t *testing.T) {
	// 1/3 and 2/3 round half up to 33 and 67.
	if got := percentage(1, 3); got != 33 {
		t.Fatalf("percentage(1,3) = %d, want 33", got)
	}
	if got := percentage(2, 3); got != 67 {
		t.Fatalf("percentage(2,3) = %d, want 67", got)
	}
	if got := percentage(1, 2); got != 50 {
		t.Fatalf("percentage(1,2) = %d, want 50", got)
	}
	if got := percentage(1, 8); got != 13 {
		t.Fatalf("percentage(1,8) = %d, want 13", got)
	}
}
