package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/tacology/feedback/internal/models"
)

// ExportStore feeds the bulk CSV dumps. Both listings are bounded so an
// export never pulls the whole table into memory.
type ExportStore interface {
	ListCustomers(p CustomerListParams) ([]*models.Customer, int, error)
	ListRecentResponses(f Filter, limit int) ([]*models.SurveyResponse, error)
}

// ExportResult carries rendered CSV bytes plus response metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	store ExportStore
}

func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store}
}

// writeCSV renders header+rows through encoding/csv, which quotes any field
// containing a comma, quote, or newline and doubles embedded quotes.
func writeCSV(header []string, rows [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CustomersCSV dumps the customer table, newest first.
func (s *ExportService) CustomersCSV() (*ExportResult, error) {
	customers, _, err := s.store.ListCustomers(CustomerListParams{Limit: MaxExportRows})
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{
			c.ID, c.Name, c.Email, c.Phone,
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	data, err := writeCSV([]string{"id", "name", "email", "phone", "created_at", "updated_at"}, rows)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: "customers.csv", ContentType: "text/csv", Data: data}, nil
}

// ResponsesCSV dumps survey responses, newest first, capped at the export
// row limit.
func (s *ExportService) ResponsesCSV(f Filter) (*ExportResult, error) {
	responses, err := s.store.ListRecentResponses(f, MaxExportRows)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(responses))
	for _, r := range responses {
		rows = append(rows, []string{
			r.ID, r.CustomerEmail, r.CustomerName, string(r.Location),
			r.CreatedAt.UTC().Format(time.RFC3339),
			strconv.FormatBool(r.Completed),
			r.NPSBucket,
			formatScore(r.SentimentScore),
		})
	}
	data, err := writeCSV(
		[]string{"id", "customer_email", "customer_name", "location", "created_at", "completed", "nps_bucket", "sentiment_score"},
		rows,
	)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: "responses.csv", ContentType: "text/csv", Data: data}, nil
}

// formatScore renders a nullable score as an empty cell, never a literal null.
func formatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}
