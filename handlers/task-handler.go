package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"task-manager/tasks-service/logging"
	"task-manager/tasks-service/models"

	"github.com/gorilla/mux"
)

// TaskService is implemented by services.TaskService.
type TaskService interface {
	CreateTask(ctx context.Context, input models.TaskCreate) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	UpdateSubtask(ctx context.Context, taskID, subtaskID string, completed bool) (*models.Task, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var input models.TaskCreate
	if !decodeJSON(w, r, &input) {
		return
	}

	task, err := h.service.CreateTask(r.Context(), input)
	if err != nil {
		respondServiceError(w, err, "create task")
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created", task.ID)
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.TaskFilter{
		Status:   models.TaskStatus(q.Get("status")),
		Priority: models.TaskPriority(q.Get("priority")),
		Category: q.Get("category"),
	}

	tasks, err := h.service.ListTasks(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, "list tasks")
		return
	}

	logging.Logger.Debugf("Event ID: TASKS_LISTED, Description: %d tasks returned for filter %+v", len(tasks), filter)
	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var update models.TaskUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	task, err := h.service.UpdateTask(r.Context(), id, update)
	if err != nil {
		respondServiceError(w, err, "update task")
		return
	}

	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated", id)
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete task")
		return
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", id)
	respondJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (h *TaskHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		respondServiceError(w, err, "compute dashboard stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *TaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	taskID, subtaskID := vars["id"], vars["subtaskId"]

	raw, present := r.URL.Query()["completed"]
	if !present || len(raw) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "completed: field required")
		return
	}
	completed, ok := parseBool(raw[0])
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "completed: value could not be parsed to a boolean")
		return
	}

	task, err := h.service.UpdateSubtask(r.Context(), taskID, subtaskID, completed)
	if err != nil {
		respondServiceError(w, err, "update subtask")
		return
	}

	logging.Logger.Infof("Event ID: SUBTASK_UPDATED, Description: Subtask %s of task %s set completed=%t", subtaskID, taskID, completed)
	respondJSON(w, http.StatusOK, task)
}

// parseBool accepts strconv's forms plus y/n, yes/no and on/off.
func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "on":
		return true, true
	case "n", "no", "off":
		return false, true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return b, err == nil
}
