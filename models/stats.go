package models

// DashboardStats is the flat set of counts behind the dashboard.
type DashboardStats struct {
	TotalTasks        int64 `json:"total_tasks"`
	TodoCount         int64 `json:"todo_count"`
	InProgressCount   int64 `json:"in_progress_count"`
	DoneCount         int64 `json:"done_count"`
	HighPriorityCount int64 `json:"high_priority_count"`
	OverdueCount      int64 `json:"overdue_count"`
}
