package api

import (
	"encoding/json"
	"net/http"

	"github.com/tacology/feedback/internal/services"
)

// GET /api/questions — the active questionnaire, in display order.
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := s.questions.List(true)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

// POST /api/survey/start
func (s *Server) handleSurveyStart(w http.ResponseWriter, r *http.Request) {
	var req services.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	out, err := s.responses.Start(req)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/survey/submit
func (s *Server) handleSurveySubmit(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	out, err := s.responses.Submit(r.Context(), req)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
