package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"task-manager/tasks-service/logging"
	"task-manager/tasks-service/models"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorResponse{Detail: detail})
}

// respondServiceError maps the error taxonomy onto status codes:
// validation 422, not found 404, everything else 500.
func respondServiceError(w http.ResponseWriter, err error, action string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		logging.Logger.Warnf("Event ID: VALIDATION_FAILED, Description: %s rejected: %v", action, err)
		respondError(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, models.ErrSubtaskNotFound):
		logging.Logger.Warnf("Event ID: SUBTASK_NOT_FOUND, Description: %s: %v", action, err)
		respondError(w, http.StatusNotFound, "Subtask not found")
	case errors.Is(err, models.ErrNotFound):
		logging.Logger.Warnf("Event ID: TASK_NOT_FOUND, Description: %s: %v", action, err)
		respondError(w, http.StatusNotFound, "Task not found")
	default:
		logging.Logger.Errorf("Event ID: STORE_OPERATION_FAILED, Description: %s failed: %v", action, err)
		respondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// decodeJSON reports malformed bodies as 422 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	logging.Logger.Warnf("Event ID: INVALID_REQUEST_BODY, Description: Failed to decode %s %s body: %v", r.Method, r.URL.Path, err)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusUnprocessableEntity, verr.Error())
		return false
	}
	respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
	return false
}
