package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/tacology/feedback/internal/models"
)

type stubExportStore struct {
	customers []*models.Customer
	responses []*models.SurveyResponse
	gotLimit  int
}

func (s *stubExportStore) ListCustomers(p CustomerListParams) ([]*models.Customer, int, error) {
	return s.customers, len(s.customers), nil
}

func (s *stubExportStore) ListRecentResponses(f Filter, limit int) ([]*models.SurveyResponse, error) {
	s.gotLimit = limit
	if limit > 0 && len(s.responses) > limit {
		return s.responses[:limit], nil
	}
	return s.responses, nil
}

func TestCustomersCSVQuoting(t *testing.T) {
	store := &stubExportStore{customers: []*models.Customer{{
		ID:        "c1",
		Name:      `Pérez, "El Jefe"` + "\nJr",
		Email:     "jefe@example.com",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}}}
	svc := NewExportService(store)

	out, err := svc.CustomersCSV()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Filename != "customers.csv" {
		t.Fatalf("filename = %s", out.Filename)
	}

	// The commas, quotes, and newline must survive a round trip.
	records, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1", len(records))
	}
	if records[1][1] != `Pérez, "El Jefe"`+"\nJr" {
		t.Fatalf("name mangled: %q", records[1][1])
	}
	if records[1][4] != "2026-03-01T12:00:00Z" {
		t.Fatalf("created_at = %s", records[1][4])
	}
}

func TestResponsesCSV(t *testing.T) {
	store := &stubExportStore{responses: []*models.SurveyResponse{
		{
			ID:             "r1",
			CustomerEmail:  "a@example.com",
			Location:       models.LocationBrickell,
			CreatedAt:      time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC),
			Completed:      true,
			NPSBucket:      models.NPSPromoter,
			SentimentScore: fptr(0.75),
		},
		{ID: "r2", Location: models.LocationWynwood, CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewExportService(store)

	out, err := svc.ResponsesCSV(Filter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out.Data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.Contains(lines[1], "0.75") || !strings.Contains(lines[1], "promoter") {
		t.Fatalf("row = %s", lines[1])
	}
	// Missing scores render as empty cells, not "null".
	if strings.Contains(lines[2], "null") {
		t.Fatalf("row = %s", lines[2])
	}
}

func TestResponsesCSVCapped(t *testing.T) {
	responses := make([]*models.SurveyResponse, MaxExportRows+50)
	for i := range responses {
		responses[i] = &models.SurveyResponse{ID: "r", Location: models.LocationBrickell, CreatedAt: time.Now().UTC()}
	}
	store := &stubExportStore{responses: responses}
	svc := NewExportService(store)

	out, err := svc.ResponsesCSV(Filter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	// The bound is pushed into the query, not applied after the fetch.
	if store.gotLimit != MaxExportRows {
		t.Fatalf("limit = %d, want %d", store.gotLimit, MaxExportRows)
	}
	lines := strings.Split(strings.TrimSpace(string(out.Data)), "\n")
	if len(lines) != MaxExportRows+1 {
		t.Fatalf("lines = %d, want %d", len(lines), MaxExportRows+1)
	}
}
