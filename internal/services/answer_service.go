package services

import (
	"time"

	"github.com/tacology/feedback/internal/models"
)

// QuestionRef is the question metadata embedded in an answer row.
type QuestionRef struct {
	ID      string                 `json:"id"`
	Code    string                 `json:"code"`
	Prompt  string                 `json:"prompt"`
	Type    models.QuestionType    `json:"question_type"`
	Options models.QuestionOptions `json:"options"`
}

// ResponseRef is the parent-response metadata embedded in an answer row.
type ResponseRef struct {
	ID             string          `json:"id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	Location       models.Location `json:"location"`
	CreatedAt      time.Time       `json:"created_at"`
	SentimentScore *float64        `json:"sentiment_score,omitempty"`
	NPSBucket      string          `json:"nps_bucket,omitempty"`
}

// AnswerRow is one answer joined with its question and parent response.
type AnswerRow struct {
	ID          string      `json:"id"`
	ValueText   string      `json:"value_text,omitempty"`
	ValueNumber *float64    `json:"value_number,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	Question    QuestionRef `json:"question"`
	Response    ResponseRef `json:"response"`
}

// AnswerStore lists joined answer rows plus the unpaginated match count.
type AnswerStore interface {
	ListAnswerRows(q AnswerQuery) ([]*AnswerRow, int, error)
}

// AnswerPage is the JSON listing shape.
type AnswerPage struct {
	Answers  []*AnswerRow `json:"answers"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

type AnswerService struct {
	store AnswerStore
}

func NewAnswerService(store AnswerStore) *AnswerService {
	return &AnswerService{store: store}
}

// List returns one page of answers for a question. A question id is
// mandatory for per-question listings.
func (s *AnswerService) List(q AnswerQuery) (*AnswerPage, error) {
	if q.QuestionID == "" {
		return nil, NewValidationError("questionId", "required")
	}
	rows, total, err := s.store.ListAnswerRows(q)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*AnswerRow{}
	}
	return &AnswerPage{Answers: rows, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// answersCSVHeader is the fixed column contract of the answers export.
var answersCSVHeader = []string{
	"id", "question_code", "question_prompt", "answer", "sentiment",
	"location", "customer_name", "customer_email", "created_at",
}

// ExportCSV renders matching answers as CSV, bounded by the export limit.
func (s *AnswerService) ExportCSV(q AnswerQuery) (*ExportResult, error) {
	if q.QuestionID == "" {
		return nil, NewValidationError("questionId", "required")
	}
	if q.Limit <= 0 || q.Limit > MaxExportRows {
		q.Limit = MaxExportRows
	}
	// Export reads one bounded page instead of walking the listing.
	q.Page = 1
	q.PageSize = q.Limit

	rows, _, err := s.store.ListAnswerRows(q)
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		answer := row.ValueText
		if answer == "" && row.ValueNumber != nil {
			answer = formatScore(row.ValueNumber)
		}
		created := row.Response.CreatedAt
		if created.IsZero() {
			created = row.CreatedAt
		}
		records = append(records, []string{
			row.ID,
			row.Question.Code,
			row.Question.Prompt,
			answer,
			formatScore(row.Response.SentimentScore),
			string(row.Response.Location),
			row.Response.CustomerName,
			row.Response.CustomerEmail,
			created.UTC().Format(time.RFC3339),
		})
	}
	data, err := writeCSV(answersCSVHeader, records)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: "answers.csv", ContentType: "text/csv; charset=utf-8", Data: data}, nil
}
