package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/tacology/feedback/internal/services"
)

// GET /api/admin/stats
func (s *Server) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	f, err := services.ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	out, err := s.stats.Overview(f)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/admin/stats/questions?questionId=...
func (s *Server) handleQuestionStats(w http.ResponseWriter, r *http.Request) {
	f, err := services.ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	out, err := s.stats.QuestionDistribution(f)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/admin/stats/customers
func (s *Server) handleCustomerStats(w http.ResponseWriter, r *http.Request) {
	f, err := services.ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	out, err := s.customers.NewCounts(f)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/admin/answers?questionId=...&format=json|csv
func (s *Server) handleAnswers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f, err := services.ParseFilter(query)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	page, err := services.ParsePage(query)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	q := services.AnswerQuery{Filter: f, PageRequest: page}

	if query.Get("format") == "csv" {
		if raw := query.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, s.log, services.NewValidationError("limit", "must be an integer"))
				return
			}
			q.Limit = n
		}
		out, err := s.answers.ExportCSV(q)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		serveCSV(w, out)
		return
	}

	out, err := s.answers.List(q)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/admin/insights?limit=...
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f, err := services.ParseFilter(query)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, s.log, services.NewValidationError("limit", "must be an integer"))
			return
		}
		limit = n
	}
	out, err := s.insights.Generate(r.Context(), f, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/admin/questions — every question, inactive included.
func (s *Server) handleAdminQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := s.questions.List(false)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

// PUT /api/admin/questions
func (s *Server) handleUpsertQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Questions []services.QuestionInput `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := s.questions.BulkUpsert(req.Questions); err != nil {
		writeError(w, s.log, err)
		return
	}
	qs, err := s.questions.List(false)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

// GET /api/admin/customers?search=&limit=&offset=
func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f, err := services.ParseFilter(query)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	p := services.CustomerListParams{Search: query.Get("search"), Filter: f}
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, s.log, services.NewValidationError("limit", "must be an integer"))
			return
		}
		p.Limit = n
	}
	if raw := query.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, s.log, services.NewValidationError("offset", "must be an integer"))
			return
		}
		p.Offset = n
	}
	out, err := s.customers.List(p)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/admin/customers/:id
func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	out, err := s.customers.Get(id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// PUT /api/admin/customers/:id
func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	out, err := s.customers.Update(id, req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DELETE /api/admin/customers/:id
func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if err := s.customers.Delete(id); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GET /api/admin/customers/:id/visits
func (s *Server) handleCustomerVisits(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	visits, err := s.customers.Visits(id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"visits": visits})
}

// GET /api/admin/exports?type=customers|responses
func (s *Server) handleExports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var (
		out *services.ExportResult
		err error
	)
	switch query.Get("type") {
	case "customers":
		out, err = s.exports.CustomersCSV()
	case "responses":
		var f services.Filter
		if f, err = services.ParseFilter(query); err == nil {
			out, err = s.exports.ResponsesCSV(f)
		}
	default:
		writeError(w, s.log, services.NewValidationError("type", "must be customers or responses"))
		return
	}
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	serveCSV(w, out)
}

func serveCSV(w http.ResponseWriter, out *services.ExportResult) {
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}
