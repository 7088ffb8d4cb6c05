package services

import (
	"context"
	"fmt"
	"time"

	"task-manager/tasks-service/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MaxListResults caps every list response; there is no pagination.
const MaxListResults = 1000

// TaskStore is the persistence the task service needs. repositories.TaskRepo implements it.
type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	Find(ctx context.Context, filter models.TaskFilter, limit int64) ([]models.Task, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	UpdateFields(ctx context.Context, task *models.Task, fields []string) (int64, error)
	SetSubtaskCompleted(ctx context.Context, taskID, subtaskID string, completed bool, updatedAt time.Time) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context, filter models.TaskFilter) (int64, error)
}

type TaskService struct {
	store TaskStore
	now   func() time.Time
	newID func() string
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// timestamp is the current time at the resolution the store keeps.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// nextUpdatedAt never returns a value at or before the previous one.
func (s *TaskService) nextUpdatedAt(previous time.Time) time.Time {
	ts := s.timestamp()
	if !ts.After(previous) {
		ts = previous.Add(time.Millisecond)
	}
	return ts
}

func (s *TaskService) CreateTask(ctx context.Context, input models.TaskCreate) (*models.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.timestamp()
	task := &models.Task{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		Priority:    models.PriorityMedium,
		Category:    input.Category,
		Status:      models.StatusToDo,
		Subtasks:    models.AssignSubtaskIDs(input.Subtasks, s.newID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.DueDate != nil {
		due := input.DueDate.UTC().Truncate(time.Millisecond)
		task.DueDate = &due
	}
	if input.Priority.Set {
		task.Priority = input.Priority.Value
	}
	if input.Status.Set {
		task.Status = input.Status.Value
	}

	if err := s.store.Insert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns tasks matching every non-empty filter field, newest first.
func (s *TaskService) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.NewValidationError(models.FieldStatus, "must be one of To Do, In Progress, Done")
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, models.NewValidationError(models.FieldPriority, "must be one of High, Medium, Low")
	}
	return s.store.Find(ctx, filter, MaxListResults)
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return s.store.FindByID(ctx, id)
}

// UpdateTask writes only the fields present in update, plus updated_at.
// A write that matches the task succeeds even if no value changed.
func (s *TaskService) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := update.ApplyTo(task, s.newID)
	task.UpdatedAt = s.nextUpdatedAt(task.UpdatedAt)
	fields = append(fields, models.FieldUpdatedAt)

	matched, err := s.store.UpdateFields(ctx, task, fields)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		// deleted between the read and the write
		return nil, models.ErrTaskNotFound
	}

	return s.store.FindByID(ctx, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (s *TaskService) UpdateSubtask(ctx context.Context, taskID, subtaskID string, completed bool) (*models.Task, error) {
	task, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.FindSubtask(subtaskID) < 0 {
		return nil, models.ErrSubtaskNotFound
	}

	matched, err := s.store.SetSubtaskCompleted(ctx, taskID, subtaskID, completed, s.nextUpdatedAt(task.UpdatedAt))
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, models.ErrSubtaskNotFound
	}

	return s.store.FindByID(ctx, taskID)
}

// DashboardStats issues six independent counts. They are not a consistent
// snapshot: writes landing between them can make the counts disagree.
func (s *TaskService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now().UTC()
	stats := &models.DashboardStats{}

	counts := []struct {
		dst    *int64
		filter models.TaskFilter
	}{
		{&stats.TotalTasks, models.TaskFilter{}},
		{&stats.TodoCount, models.TaskFilter{Status: models.StatusToDo}},
		{&stats.InProgressCount, models.TaskFilter{Status: models.StatusInProgress}},
		{&stats.DoneCount, models.TaskFilter{Status: models.StatusDone}},
		{&stats.HighPriorityCount, models.TaskFilter{Priority: models.PriorityHigh}},
		{&stats.OverdueCount, models.TaskFilter{DueBefore: &now, StatusNot: models.StatusDone}},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		c := c
		g.Go(func() error {
			n, err := s.store.Count(gctx, c.filter)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return stats, nil
}
