package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/tacology/feedback/internal/models"
)

// LabelCount is one (label, count) pair in declared-option order.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Tally holds raw per-option counts for one question within a filtered
// answer set. Derived in memory, never persisted.
type Tally struct {
	Counts  map[string]int
	Ordered []LabelCount // declared options order, not frequency order
	Total   int          // sum of counts over declared options only
	Texts   []string     // free_text only: the non-empty trimmed answers
}

// TallyAnswers aggregates the answers for one question. Stored values that do
// not match any declared label are ignored: they neither crash the tally nor
// inflate Total.
func TallyAnswers(q *models.Question, answers []*models.Answer) *Tally {
	t := &Tally{Counts: map[string]int{}}
	if q == nil {
		return t
	}

	switch q.Type {
	case models.QuestionSingleChoice:
		labels := q.Options.Labels
		for _, l := range labels {
			t.Counts[l] = 0
		}
		for _, a := range answers {
			label := resolveChoiceLabel(a, labels)
			if label == "" {
				continue
			}
			t.Counts[label]++
		}
		for _, l := range labels {
			t.Ordered = append(t.Ordered, LabelCount{Label: l, Count: t.Counts[l]})
			t.Total += t.Counts[l]
		}

	case models.QuestionScale0To10:
		for v := 0; v <= 10; v++ {
			t.Counts[strconv.Itoa(v)] = 0
		}
		for _, a := range answers {
			v, ok := scaleValue(a)
			if !ok {
				continue // out of range or non-integer, dropped
			}
			t.Counts[strconv.Itoa(v)]++
		}
		for v := 0; v <= 10; v++ {
			key := strconv.Itoa(v)
			t.Ordered = append(t.Ordered, LabelCount{Label: key, Count: t.Counts[key]})
			t.Total += t.Counts[key]
		}

	case models.QuestionFreeText:
		for _, a := range answers {
			text := strings.TrimSpace(a.ValueText)
			if text == "" {
				continue
			}
			t.Texts = append(t.Texts, text)
		}
		t.Total = len(t.Texts)
	}
	return t
}

// resolveChoiceLabel returns the declared label an answer selects, or "".
// The canonical storage is the label itself in value_text; rows from the
// older schema carry only a 1-based option index in value_number.
func resolveChoiceLabel(a *models.Answer, labels []string) string {
	if a == nil {
		return ""
	}
	if text := strings.TrimSpace(a.ValueText); text != "" {
		for _, l := range labels {
			if l == text {
				return l
			}
		}
		return ""
	}
	if a.ValueNumber != nil {
		idx := int(*a.ValueNumber)
		if float64(idx) == *a.ValueNumber && idx >= 1 && idx <= len(labels) {
			return labels[idx-1]
		}
	}
	return ""
}

// scaleValue extracts an exact integer 0..10 from a scale answer.
func scaleValue(a *models.Answer) (int, bool) {
	if a == nil || a.ValueNumber == nil {
		return 0, false
	}
	v := *a.ValueNumber
	if v != math.Trunc(v) || v < 0 || v > 10 {
		return 0, false
	}
	return int(v), true
}
