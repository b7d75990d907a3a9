package models

import "time"

// QuestionType enumerates the three supported question kinds.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionScale0To10   QuestionType = "scale_0_10"
	QuestionFreeText     QuestionType = "free_text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingleChoice, QuestionScale0To10, QuestionFreeText:
		return true
	}
	return false
}

// Location identifies one of the two venues.
type Location string

const (
	LocationBrickell Location = "brickell"
	LocationWynwood  Location = "wynwood"
)

func (l Location) Valid() bool {
	return l == LocationBrickell || l == LocationWynwood
}

// QuestionOptions carries the per-type attributes of a question.
// Only single_choice questions have Labels; the other types carry none.
type QuestionOptions struct {
	Labels []string `json:"labels,omitempty"`
}

// Question defines one survey question.
type Question struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Prompt    string          `json:"prompt"`
	Type      QuestionType    `json:"question_type"`
	Options   QuestionOptions `json:"options"`
	SortOrder int             `json:"sort_order"`
	IsActive  bool            `json:"is_active"`
}

// SurveyResponse is one completed survey submission. It owns its answers;
// deleting a response cascades to them.
type SurveyResponse struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id,omitempty"`
	CustomerName   string    `json:"customer_name,omitempty"`
	CustomerEmail  string    `json:"customer_email,omitempty"`
	Location       Location  `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	Completed      bool      `json:"completed"`
	NPSBucket      string    `json:"nps_bucket,omitempty"`
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
}

// Answer stores one answered question within a response. Exactly one of
// ValueText/ValueNumber is populated depending on the question type.
type Answer struct {
	ID          string    `json:"id"`
	ResponseID  string    `json:"response_id"`
	QuestionID  string    `json:"question_id"`
	ValueText   string    `json:"value_text,omitempty"`
	ValueNumber *float64  `json:"value_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Customer is keyed uniquely by email and upserted on survey start and submit.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminUser is a dashboard login.
type AdminUser struct {
	ID        string
	Email     string
	PassHash  []byte
	CreatedAt time.Time
}

// NPS buckets derived from the 0-10 recommendation answer.
const (
	NPSPromoter  = "promoter"
	NPSPassive   = "passive"
	NPSDetractor = "detractor"
)

// Sentiment buckets derived from the [-1,1] sentiment score.
const (
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentPositive = "positive"
)

// BucketMissing marks responses without a qualifying value for either metric.
const BucketMissing = "missing"

// NPSBucketOf classifies a 0-10 recommendation value.
func NPSBucketOf(value float64) string {
	switch {
	case value >= 9:
		return NPSPromoter
	case value >= 7:
		return NPSPassive
	default:
		return NPSDetractor
	}
}

// Sentiment thresholds. The closed band [-0.2, 0.2] is neutral; every place
// that derives or filters a sentiment bucket uses these same boundaries.
const (
	SentimentNegativeBelow = -0.2
	SentimentPositiveAbove = 0.2
)

// SentimentBucketOf classifies a sentiment score; a nil score is missing.
func SentimentBucketOf(score *float64) string {
	if score == nil {
		return BucketMissing
	}
	switch {
	case *score < SentimentNegativeBelow:
		return SentimentNegative
	case *score > SentimentPositiveAbove:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}
