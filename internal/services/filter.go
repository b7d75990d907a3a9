package services

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tacology/feedback/internal/models"
)

// Filter restricts which responses (and their answers) a query considers.
// Zero values mean "no restriction" except QuestionID, which some callers
// require explicitly.
type Filter struct {
	From       *time.Time
	To         *time.Time
	Location   models.Location
	QuestionID string
	Sentiment  string // sentiment bucket name, or "" for all
	NPSBucket  string // promoter|passive|detractor|missing, or "" for all
	IDs        []string
}

// Sort/pagination defaults and caps for answer listings.
const (
	DefaultPageSize = 25
	MaxPageSize     = 200
	MaxExportRows   = 2000
)

// PageRequest carries pagination and ordering for answer listings.
type PageRequest struct {
	Page     int
	PageSize int
	SortBy   string // answer|sentiment|date
	SortDir  string // asc|desc
}

// AnswerQuery is the full request for the answers listing/export endpoint.
type AnswerQuery struct {
	Filter
	PageRequest
	Limit int // export row cap, CSV mode only
}

func (f Filter) validBuckets() error {
	switch f.Sentiment {
	case "", models.SentimentNegative, models.SentimentNeutral, models.SentimentPositive:
	default:
		return NewValidationError("sentiment", "must be one of positive, neutral, negative")
	}
	switch f.NPSBucket {
	case "", models.NPSPromoter, models.NPSPassive, models.NPSDetractor, models.BucketMissing:
	default:
		return NewValidationError("npsBucket", "must be one of promoter, passive, detractor, missing")
	}
	return nil
}

// ParseFilter reads the shared filter parameters out of a query string.
// Malformed timestamps and unrecognized enum values are rejected naming the
// offending field; they are never silently ignored.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter

	from, err := parseTimeParam(q.Get("from"), "from")
	if err != nil {
		return f, err
	}
	to, err := parseTimeParam(q.Get("to"), "to")
	if err != nil {
		return f, err
	}
	f.From, f.To = from, to

	if loc := q.Get("location"); loc != "" {
		l := models.Location(loc)
		if !l.Valid() {
			return f, NewValidationError("location", "must be brickell or wynwood")
		}
		f.Location = l
	}

	if qid := q.Get("questionId"); qid != "" {
		if _, err := uuid.Parse(qid); err != nil {
			return f, NewValidationError("questionId", "must be a UUID")
		}
		f.QuestionID = qid
	}

	f.Sentiment = q.Get("sentiment")
	f.NPSBucket = q.Get("npsBucket")
	if err := f.validBuckets(); err != nil {
		return f, err
	}

	for _, id := range q["id"] {
		if _, err := uuid.Parse(id); err != nil {
			return f, NewValidationError("id", "must be a UUID")
		}
		f.IDs = append(f.IDs, id)
	}
	return f, nil
}

// ParsePage reads pagination and ordering parameters with defaults applied.
func ParsePage(q url.Values) (PageRequest, error) {
	p := PageRequest{Page: 1, PageSize: DefaultPageSize, SortBy: "date", SortDir: "desc"}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, NewValidationError("page", "must be a positive integer")
		}
		p.Page = n
	}
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPageSize {
			return p, NewValidationError("pageSize", "must be between 1 and 200")
		}
		p.PageSize = n
	}
	if raw := q.Get("sortBy"); raw != "" {
		switch raw {
		case "answer", "sentiment", "date":
			p.SortBy = raw
		default:
			return p, NewValidationError("sortBy", "must be one of answer, sentiment, date")
		}
	}
	if raw := q.Get("sortDir"); raw != "" {
		switch raw {
		case "asc", "desc":
			p.SortDir = raw
		default:
			return p, NewValidationError("sortDir", "must be asc or desc")
		}
	}
	return p, nil
}

// parseTimeParam accepts RFC3339 timestamps or bare dates. Both window bounds
// are inclusive; a bare "to" date extends to the end of that day.
func parseTimeParam(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if field == "to" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		t = t.UTC()
		return &t, nil
	}
	return nil, NewValidationError(field, "must be an ISO-8601 timestamp")
}

// Matches reports whether a response satisfies the response-level parts of
// the filter. Store implementations that cannot push every predicate into
// their query use it to post-filter.
func (f Filter) Matches(r *models.SurveyResponse) bool {
	if r == nil {
		return false
	}
	if f.From != nil && r.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && r.CreatedAt.After(*f.To) {
		return false
	}
	if f.Location != "" && r.Location != f.Location {
		return false
	}
	if f.Sentiment != "" && models.SentimentBucketOf(r.SentimentScore) != f.Sentiment {
		return false
	}
	if f.NPSBucket != "" {
		bucket := r.NPSBucket
		if bucket == "" {
			bucket = models.BucketMissing
		}
		if bucket != f.NPSBucket {
			return false
		}
	}
	return true
}
