package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the API under /api and the health check at /health.
func RegisterRoutes(r *mux.Router, tasks *TaskHandler, status *StatusHandler, health *HealthHandler) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.HandleFunc("/health", health.Check).Methods(http.MethodGet)
	r.HandleFunc("/api", Root).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/", Root).Methods(http.MethodGet)

	api.HandleFunc("/status", status.CreateStatusCheck).Methods(http.MethodPost)
	api.HandleFunc("/status", status.ListStatusChecks).Methods(http.MethodGet)

	api.HandleFunc("/tasks", tasks.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks", tasks.ListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks/stats/dashboard", tasks.DashboardStats).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", tasks.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", tasks.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", tasks.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/subtasks/{subtaskId}", tasks.UpdateSubtask).Methods(http.MethodPut)
}
