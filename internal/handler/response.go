package handler

import (
	"encoding/json"
	"net/http"

	"signin-screen/internal/middleware"
	"signin-screen/pkg/errors"
	"signin-screen/pkg/logger"
)

// APIResponse is the envelope for successful JSON responses
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respondJSON(w http.ResponseWriter, log *logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data}); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, appErr *errors.AppError) {
	requestID := middleware.GetRequestID(r.Context())
	entry := log.WithError(appErr).WithField("request_id", requestID)
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Warn("Request error")
	}

	if err := errors.WriteJSON(w, appErr, requestID); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}
