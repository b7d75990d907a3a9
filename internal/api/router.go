// Package api exposes the survey intake and admin dashboard over HTTP.
package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/tacology/feedback/internal/middleware"
	"github.com/tacology/feedback/internal/services"
)

// Server holds every service the HTTP surface dispatches to.
type Server struct {
	log       *logrus.Logger
	tokens    *middleware.Auth
	auth      *services.AuthService
	questions *services.QuestionService
	responses *services.ResponseService
	answers   *services.AnswerService
	stats     *services.StatsService
	insights  *services.InsightsService
	customers *services.CustomerService
	exports   *services.ExportService
}

type Services struct {
	Tokens    *middleware.Auth
	Auth      *services.AuthService
	Questions *services.QuestionService
	Responses *services.ResponseService
	Answers   *services.AnswerService
	Stats     *services.StatsService
	Insights  *services.InsightsService
	Customers *services.CustomerService
	Exports   *services.ExportService
}

func NewServer(log *logrus.Logger, svc Services) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if svc.Tokens == nil {
		svc.Tokens = middleware.NewAuth("")
	}
	return &Server{
		log:       log,
		tokens:    svc.Tokens,
		auth:      svc.Auth,
		questions: svc.Questions,
		responses: svc.Responses,
		answers:   svc.Answers,
		stats:     svc.Stats,
		insights:  svc.Insights,
		customers: svc.Customers,
		exports:   svc.Exports,
	}
}

// Routes builds the route table. Admin routes require a valid bearer token;
// the survey intake routes are public.
func (s *Server) Routes() http.Handler {
	rt := httprouter.New()

	rt.HandlerFunc(http.MethodGet, "/health", s.handleHealth)

	rt.HandlerFunc(http.MethodPost, "/api/auth/register", s.handleRegister)
	rt.HandlerFunc(http.MethodPost, "/api/auth/login", s.handleLogin)

	rt.HandlerFunc(http.MethodGet, "/api/questions", s.handleListQuestions)
	rt.HandlerFunc(http.MethodPost, "/api/survey/start", s.handleSurveyStart)
	rt.HandlerFunc(http.MethodPost, "/api/survey/submit", s.handleSurveySubmit)

	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	rt.Handler(http.MethodGet, "/api/admin/stats", admin(s.handleStatsOverview))
	rt.Handler(http.MethodGet, "/api/admin/stats/questions", admin(s.handleQuestionStats))
	rt.Handler(http.MethodGet, "/api/admin/stats/customers", admin(s.handleCustomerStats))
	rt.Handler(http.MethodGet, "/api/admin/answers", admin(s.handleAnswers))
	rt.Handler(http.MethodGet, "/api/admin/insights", admin(s.handleInsights))
	rt.Handler(http.MethodGet, "/api/admin/questions", admin(s.handleAdminQuestions))
	rt.Handler(http.MethodPut, "/api/admin/questions", admin(s.handleUpsertQuestions))
	rt.Handler(http.MethodGet, "/api/admin/customers", admin(s.handleListCustomers))
	rt.Handler(http.MethodGet, "/api/admin/customers/:id", admin(s.handleGetCustomer))
	rt.Handler(http.MethodPut, "/api/admin/customers/:id", admin(s.handleUpdateCustomer))
	rt.Handler(http.MethodDelete, "/api/admin/customers/:id", admin(s.handleDeleteCustomer))
	rt.Handler(http.MethodGet, "/api/admin/customers/:id/visits", admin(s.handleCustomerVisits))
	rt.Handler(http.MethodGet, "/api/admin/exports", admin(s.handleExports))

	return s.tokens.WithAuth(rt)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
