package models

import "testing"

func TestNPSBucketOf(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{10, NPSPromoter},
		{9, NPSPromoter},
		{8, NPSPassive},
		{7, NPSPassive},
		{6, NPSDetractor},
		{0, NPSDetractor},
	}
	for _, c := range cases {
		if got := NPSBucketOf(c.value); got != c.want {
			t.Fatalf("NPSBucketOf(%v) = %s, want %s", c.value, got, c.want)
		}
	}
}

func TestSentimentBucketOf(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{-1, SentimentNegative},
		{-0.21, SentimentNegative},
		{-0.2, SentimentNeutral}, // boundary belongs to neutral
		{0, SentimentNeutral},
		{0.2, SentimentNeutral}, // boundary belongs to neutral
		{0.21, SentimentPositive},
		{1, SentimentPositive},
	}
	for _, c := range cases {
		s := c.score
		if got := SentimentBucketOf(&s); got != c.want {
			t.Fatalf("SentimentBucketOf(%v) = %s, want %s", c.score, got, c.want)
		}
	}
	if got := SentimentBucketOf(nil); got != BucketMissing {
		t.Fatalf("SentimentBucketOf(nil) = %s, want missing", got)
	}
}

func TestEnumValidity(t *testing.T) {
	if !QuestionSingleChoice.Valid() || !QuestionScale0To10.Valid() || !QuestionFreeText.Valid() {
		t.Fatal("declared question types must be valid")
	}
	if QuestionType("ranking").Valid() {
		t.Fatal("unknown question type must be invalid")
	}
	if !LocationBrickell.Valid() || !LocationWynwood.Valid() {
		t.Fatal("declared locations must be valid")
	}
	if Location("doral").Valid() {
		t.Fatal("unknown location must be invalid")
	}
}
