package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tacology/feedback/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var errorStatus = map[services.ErrorCode]int{
	services.ErrorInvalid:         http.StatusBadRequest,
	services.ErrorUnauthorized:    http.StatusUnauthorized,
	services.ErrorForbidden:       http.StatusForbidden,
	services.ErrorNotFound:        http.StatusNotFound,
	services.ErrorConflict:        http.StatusConflict,
	services.ErrorTooManyRequests: http.StatusTooManyRequests,
	services.ErrorBadGateway:      http.StatusBadGateway,
	services.ErrorUnavailable:     http.StatusServiceUnavailable,
}

// writeError maps service errors onto HTTP statuses. Validation errors name
// the offending field; anything unrecognized is a 500.
func writeError(w http.ResponseWriter, log *logrus.Logger, err error) {
	if ve, ok := services.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message, "field": ve.Field})
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		status, known := errorStatus[se.Code]
		if !known {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, map[string]string{"error": se.Message})
		return
	}
	log.WithError(err).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
