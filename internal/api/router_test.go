package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacology/feedback/internal/middleware"
	"github.com/tacology/feedback/internal/models"
	"github.com/tacology/feedback/internal/services"
)

type fakeStore struct {
	questions []*models.Question
	responses []*models.SurveyResponse
	answers   []*models.Answer
	customers map[string]*models.Customer
	admins    map[string]*models.AdminUser
	rows      []*services.AnswerRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[string]*models.Customer{},
		admins:    map[string]*models.AdminUser{},
	}
}

func (s *fakeStore) ListQuestions(activeOnly bool) ([]*models.Question, error) {
	return s.questions, nil
}
func (s *fakeStore) UpsertQuestionsByCode(qs []*models.Question) error {
	s.questions = qs
	return nil
}
func (s *fakeStore) ListResponses(f services.Filter) ([]*models.SurveyResponse, error) {
	out := []*models.SurveyResponse{}
	for _, r := range s.responses {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
func (s *fakeStore) ListRecentResponses(f services.Filter, limit int) ([]*models.SurveyResponse, error) {
	out, err := s.ListResponses(f)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
func (s *fakeStore) GetQuestion(id string) (*models.Question, error) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}
func (s *fakeStore) ListAnswersByQuestion(f services.Filter) ([]*models.Answer, error) {
	return s.answers, nil
}
func (s *fakeStore) ListAnswerRows(q services.AnswerQuery) ([]*services.AnswerRow, int, error) {
	return s.rows, len(s.rows), nil
}
func (s *fakeStore) ListResponsesWithAnswers(f services.Filter, limit int) ([]*services.ResponseWithAnswers, error) {
	return nil, nil
}
func (s *fakeStore) UpsertCustomerByEmail(c *models.Customer) (*models.Customer, error) {
	for _, existing := range s.customers {
		if existing.Email == c.Email {
			return existing, nil
		}
	}
	s.customers[c.ID] = c
	return c, nil
}
func (s *fakeStore) InsertResponse(r *models.SurveyResponse) error {
	s.responses = append(s.responses, r)
	return nil
}
func (s *fakeStore) InsertAnswers(rows []*models.Answer) error {
	s.answers = append(s.answers, rows...)
	return nil
}
func (s *fakeStore) ListCustomers(p services.CustomerListParams) ([]*models.Customer, int, error) {
	out := []*models.Customer{}
	for _, c := range s.customers {
		out = append(out, c)
	}
	return out, len(out), nil
}
func (s *fakeStore) GetCustomer(id string) (*models.Customer, error) { return s.customers[id], nil }
func (s *fakeStore) UpdateCustomer(c *models.Customer) error {
	s.customers[c.ID] = c
	return nil
}
func (s *fakeStore) DeleteCustomer(id string) error {
	delete(s.customers, id)
	return nil
}
func (s *fakeStore) CountNewCustomers(f services.Filter) (int, map[string]int, error) {
	return len(s.customers), map[string]int{}, nil
}
func (s *fakeStore) ListCustomerVisits(customerID string) ([]*services.CustomerVisit, error) {
	out := []*services.CustomerVisit{}
	for _, r := range s.responses {
		if r.CustomerID == customerID {
			out = append(out, &services.CustomerVisit{ID: r.ID, Location: r.Location, CreatedAt: r.CreatedAt})
		}
	}
	return out, nil
}
func (s *fakeStore) FindAdminByEmail(email string) (*models.AdminUser, error) {
	return s.admins[email], nil
}
func (s *fakeStore) AddAdmin(u *models.AdminUser) error {
	s.admins[u.Email] = u
	return nil
}

var testAuth = middleware.NewAuth("test-secret")

func newTestServer(store *fakeStore) http.Handler {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	srv := NewServer(log, Services{
		Tokens:    testAuth,
		Auth:      services.NewAuthService(store, services.NewAdminPolicy(nil), testAuth.SignToken),
		Questions: services.NewQuestionService(store),
		Responses: services.NewResponseService(store, nil, nil, log),
		Answers:   services.NewAnswerService(store),
		Stats:     services.NewStatsService(store),
		Insights:  services.NewInsightsService(store, nil, log),
		Customers: services.NewCustomerService(store),
		Exports:   services.NewExportService(store),
	})
	return srv.Routes()
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := testAuth.SignToken("u1", "boss@tacology.com", time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestServer(newFakeStore())
	w := doRequest(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	h := newTestServer(newFakeStore())
	paths := []string{
		"/api/admin/stats",
		"/api/admin/answers",
		"/api/admin/insights",
		"/api/admin/questions",
		"/api/admin/customers",
		"/api/admin/exports?type=customers",
	}
	for _, p := range paths {
		w := doRequest(h, http.MethodGet, p, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, p)
	}

	w := doRequest(h, http.MethodGet, "/api/admin/stats", "garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSurveySubmitFlow(t *testing.T) {
	store := newFakeStore()
	h := newTestServer(store)

	body := `{"email":"ana@example.com","name":"Ana","location":"brickell","answers":[{"question_id":"6f1a2b3c-4d5e-4f60-8a9b-0c1d2e3f4a5b","value_number":9}]}`
	w := doRequest(h, http.MethodPost, "/api/survey/submit", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		ResponseID string `json:"responseId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotEmpty(t, out.ResponseID)
	require.Len(t, store.responses, 1)
	assert.Equal(t, models.NPSPromoter, store.responses[0].NPSBucket)
}

func TestSurveySubmitValidation(t *testing.T) {
	h := newTestServer(newFakeStore())

	w := doRequest(h, http.MethodPost, "/api/survey/submit", "", `{"location":"doral","answers":[{"question_id":"6f1a2b3c-4d5e-4f60-8a9b-0c1d2e3f4a5b"}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var out struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "location", out.Field)
}

func TestStatsOverviewEndpoint(t *testing.T) {
	store := newFakeStore()
	store.responses = []*models.SurveyResponse{
		{ID: "r1", Location: models.LocationBrickell, CreatedAt: time.Now().UTC(), NPSBucket: models.NPSPromoter},
		{ID: "r2", Location: models.LocationWynwood, CreatedAt: time.Now().UTC(), NPSBucket: models.NPSDetractor},
	}
	h := newTestServer(store)

	w := doRequest(h, http.MethodGet, "/api/admin/stats", adminToken(t), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out services.StatsOverview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Total)
	require.NotNil(t, out.NPSScore)
	assert.Equal(t, float64(0), *out.NPSScore)
}

func TestStatsFilterValidation(t *testing.T) {
	h := newTestServer(newFakeStore())
	w := doRequest(h, http.MethodGet, "/api/admin/stats?from=whenever", adminToken(t), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnswersCSVDownload(t *testing.T) {
	store := newFakeStore()
	store.rows = []*services.AnswerRow{{
		ID:        "a1",
		ValueText: "slow service",
		CreatedAt: time.Now().UTC(),
		Question:  services.QuestionRef{ID: "q1", Code: "improve", Prompt: "What could we improve?"},
		Response:  services.ResponseRef{ID: "r1", Location: models.LocationBrickell, CreatedAt: time.Now().UTC()},
	}}
	h := newTestServer(store)

	w := doRequest(h, http.MethodGet, "/api/admin/answers?questionId=6f1a2b3c-4d5e-4f60-8a9b-0c1d2e3f4a5b&format=csv", adminToken(t), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="answers.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "slow service")
}

func TestAnswersRequireQuestionID(t *testing.T) {
	h := newTestServer(newFakeStore())
	w := doRequest(h, http.MethodGet, "/api/admin/answers", adminToken(t), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsightsUnavailableWithoutModel(t *testing.T) {
	h := newTestServer(newFakeStore())
	w := doRequest(h, http.MethodGet, "/api/admin/insights", adminToken(t), "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	h := newTestServer(newFakeStore())

	w := doRequest(h, http.MethodPost, "/api/auth/register", "", `{"email":"boss@tacology.com","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(h, http.MethodPost, "/api/auth/login", "", `{"email":"boss@tacology.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)

	// The minted token opens the admin surface.
	w = doRequest(h, http.MethodGet, "/api/admin/questions", out.Token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomerCRUD(t *testing.T) {
	store := newFakeStore()
	store.customers["c1"] = &models.Customer{ID: "c1", Email: "ana@example.com"}
	h := newTestServer(store)
	token := adminToken(t)

	w := doRequest(h, http.MethodGet, "/api/admin/customers/c1", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(h, http.MethodPut, "/api/admin/customers/c1", token, `{"name":"Ana","email":"ana@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(h, http.MethodDelete, "/api/admin/customers/c1", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(h, http.MethodGet, "/api/admin/customers/c1", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerVisitsEndpoint(t *testing.T) {
	store := newFakeStore()
	store.customers["c1"] = &models.Customer{ID: "c1", Email: "ana@example.com"}
	store.responses = []*models.SurveyResponse{
		{ID: "r1", CustomerID: "c1", Location: models.LocationBrickell, CreatedAt: time.Now().UTC()},
		{ID: "r2", CustomerID: "other", Location: models.LocationWynwood, CreatedAt: time.Now().UTC()},
	}
	h := newTestServer(store)
	token := adminToken(t)

	w := doRequest(h, http.MethodGet, "/api/admin/customers/c1/visits", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Visits []services.CustomerVisit `json:"visits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Visits, 1)
	assert.Equal(t, "r1", out.Visits[0].ID)
	assert.Equal(t, models.LocationBrickell, out.Visits[0].Location)

	w = doRequest(h, http.MethodGet, "/api/admin/customers/nobody/visits", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(h, http.MethodGet, "/api/admin/customers/c1/visits", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerListPagingValidation(t *testing.T) {
	h := newTestServer(newFakeStore())
	token := adminToken(t)

	for _, tc := range []struct{ path, field string }{
		{"/api/admin/customers?limit=abc", "limit"},
		{"/api/admin/customers?offset=later", "offset"},
	} {
		w := doRequest(h, http.MethodGet, tc.path, token, "")
		require.Equal(t, http.StatusBadRequest, w.Code, tc.path)
		var out struct {
			Field string `json:"field"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, tc.field, out.Field)
	}
}

func TestExportTypeValidation(t *testing.T) {
	h := newTestServer(newFakeStore())
	w := doRequest(h, http.MethodGet, "/api/admin/exports?type=everything", adminToken(t), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(h, http.MethodGet, "/api/admin/exports?type=customers", adminToken(t), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="customers.csv"`, w.Header().Get("Content-Disposition"))
}
