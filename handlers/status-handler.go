package handlers

import (
	"context"
	"net/http"
	"time"

	"task-manager/tasks-service/logging"
	"task-manager/tasks-service/models"
)

type StatusService interface {
	CreateStatusCheck(ctx context.Context, input models.StatusCheckCreate) (*models.StatusCheck, error)
	ListStatusChecks(ctx context.Context) ([]models.StatusCheck, error)
}

type StatusHandler struct {
	service StatusService
}

func NewStatusHandler(service StatusService) *StatusHandler {
	return &StatusHandler{service: service}
}

func (h *StatusHandler) CreateStatusCheck(w http.ResponseWriter, r *http.Request) {
	var input models.StatusCheckCreate
	if !decodeJSON(w, r, &input) {
		return
	}

	check, err := h.service.CreateStatusCheck(r.Context(), input)
	if err != nil {
		respondServiceError(w, err, "create status check")
		return
	}
	respondJSON(w, http.StatusOK, check)
}

func (h *StatusHandler) ListStatusChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := h.service.ListStatusChecks(r.Context())
	if err != nil {
		respondServiceError(w, err, "list status checks")
		return
	}
	respondJSON(w, http.StatusOK, checks)
}

func Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, messageResponse{Message: "Hello World"})
}

// HealthHandler reports whether the document store answers a ping.
type HealthHandler struct {
	ping    func(ctx context.Context) error
	timeout time.Duration
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping, timeout: 2 * time.Second}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		logging.Logger.Errorf("Event ID: HEALTH_CHECK_FAILED, Description: Store ping failed: %v", err)
		respondError(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
