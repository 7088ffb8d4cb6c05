package models

import (
	"encoding/json"
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Document field names, shared by the JSON and BSON representations.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "due_date"
	FieldPriority    = "priority"
	FieldCategory    = "category"
	FieldStatus      = "status"
	FieldSubtasks    = "subtasks"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

type Subtask struct {
	ID        string `json:"id" bson:"id"`
	Text      string `json:"text" bson:"text"`
	Completed bool   `json:"completed" bson:"completed"`
}

// UnmarshalJSON requires the text key; an empty string is a valid text.
func (st *Subtask) UnmarshalJSON(data []byte) error {
	type plain Subtask
	var body struct {
		plain
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	if body.Text == nil {
		return NewValidationError(FieldSubtasks, "subtask text: field required")
	}
	*st = Subtask(body.plain)
	st.Text = *body.Text
	return nil
}

type Task struct {
	ID          string       `json:"id" bson:"id"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	DueDate     *time.Time   `json:"due_date" bson:"due_date"`
	Priority    TaskPriority `json:"priority" bson:"priority"`
	Category    string       `json:"category" bson:"category"`
	Status      TaskStatus   `json:"status" bson:"status"`
	Subtasks    []Subtask    `json:"subtasks" bson:"subtasks"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// Value returns the stored value of a document field, for building targeted updates.
func (t *Task) Value(field string) interface{} {
	switch field {
	case FieldID:
		return t.ID
	case FieldTitle:
		return t.Title
	case FieldDescription:
		return t.Description
	case FieldDueDate:
		return t.DueDate
	case FieldPriority:
		return t.Priority
	case FieldCategory:
		return t.Category
	case FieldStatus:
		return t.Status
	case FieldSubtasks:
		return t.Subtasks
	case FieldCreatedAt:
		return t.CreatedAt
	case FieldUpdatedAt:
		return t.UpdatedAt
	}
	return nil
}

// FindSubtask returns the index of the subtask with the given id, or -1.
func (t *Task) FindSubtask(id string) int {
	for i, st := range t.Subtasks {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// TaskCreate is the request body of a create call.
// Priority and Status fall back to their defaults only when omitted; an explicit null is rejected.
type TaskCreate struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	DueDate     *Timestamp             `json:"due_date"`
	Priority    Optional[TaskPriority] `json:"priority"`
	Category    string                 `json:"category"`
	Status      Optional[TaskStatus]   `json:"status"`
	Subtasks    []Subtask              `json:"subtasks"`
}

func (in *TaskCreate) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError(FieldTitle, "field required")
	}
	if in.Priority.Set && (in.Priority.Null || !in.Priority.Value.Valid()) {
		return NewValidationError(FieldPriority, "must be one of High, Medium, Low")
	}
	if in.Status.Set && (in.Status.Null || !in.Status.Value.Valid()) {
		return NewValidationError(FieldStatus, "must be one of To Do, In Progress, Done")
	}
	return validateSubtasks(in.Subtasks)
}

// TaskUpdate is a partial update: only fields present in the request are applied.
type TaskUpdate struct {
	Title       Optional[string]       `json:"title"`
	Description Optional[string]       `json:"description"`
	DueDate     Optional[Timestamp]    `json:"due_date"`
	Priority    Optional[TaskPriority] `json:"priority"`
	Category    Optional[string]       `json:"category"`
	Status      Optional[TaskStatus]   `json:"status"`
	Subtasks    Optional[[]Subtask]    `json:"subtasks"`
}

func (u *TaskUpdate) Validate() error {
	if u.Title.Set && (u.Title.Null || strings.TrimSpace(u.Title.Value) == "") {
		return NewValidationError(FieldTitle, "must be a non-empty string")
	}
	if u.Priority.Set && (u.Priority.Null || !u.Priority.Value.Valid()) {
		return NewValidationError(FieldPriority, "must be one of High, Medium, Low")
	}
	if u.Status.Set && (u.Status.Null || !u.Status.Value.Valid()) {
		return NewValidationError(FieldStatus, "must be one of To Do, In Progress, Done")
	}
	if u.Subtasks.Set && !u.Subtasks.Null {
		return validateSubtasks(u.Subtasks.Value)
	}
	return nil
}

// ApplyTo merges the present fields into t and returns their names.
// Subtasks without an id get one from newID.
func (u *TaskUpdate) ApplyTo(t *Task, newID func() string) []string {
	var fields []string
	if u.Title.Set {
		t.Title = u.Title.Value
		fields = append(fields, FieldTitle)
	}
	if u.Description.Set {
		t.Description = u.Description.Value
		fields = append(fields, FieldDescription)
	}
	if u.DueDate.Set {
		if u.DueDate.Null {
			t.DueDate = nil
		} else {
			due := u.DueDate.Value.UTC().Truncate(time.Millisecond)
			t.DueDate = &due
		}
		fields = append(fields, FieldDueDate)
	}
	if u.Priority.Set {
		t.Priority = u.Priority.Value
		fields = append(fields, FieldPriority)
	}
	if u.Category.Set {
		t.Category = u.Category.Value
		fields = append(fields, FieldCategory)
	}
	if u.Status.Set {
		t.Status = u.Status.Value
		fields = append(fields, FieldStatus)
	}
	if u.Subtasks.Set {
		t.Subtasks = AssignSubtaskIDs(u.Subtasks.Value, newID)
		fields = append(fields, FieldSubtasks)
	}
	return fields
}

// AssignSubtaskIDs copies subtasks, filling in missing ids. The result is never nil.
func AssignSubtaskIDs(in []Subtask, newID func() string) []Subtask {
	out := make([]Subtask, 0, len(in))
	for _, st := range in {
		if st.ID == "" {
			st.ID = newID()
		}
		out = append(out, st)
	}
	return out
}

func validateSubtasks(subtasks []Subtask) error {
	seen := make(map[string]struct{}, len(subtasks))
	for _, st := range subtasks {
		if st.ID == "" {
			continue
		}
		if _, dup := seen[st.ID]; dup {
			return NewValidationError(FieldSubtasks, "duplicate subtask id "+st.ID)
		}
		seen[st.ID] = struct{}{}
	}
	return nil
}

// TaskFilter selects tasks by exact match; zero-valued fields match everything.
type TaskFilter struct {
	Status    TaskStatus
	Priority  TaskPriority
	Category  string
	StatusNot TaskStatus
	DueBefore *time.Time
}

// Matches reports whether t satisfies every set condition of f.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.StatusNot != "" && t.Status == f.StatusNot {
		return false
	}
	if f.DueBefore != nil && (t.DueDate == nil || !t.DueDate.Before(*f.DueBefore)) {
		return false
	}
	return true
}
